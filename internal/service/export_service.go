package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/course-admin-api/internal/models"
	"github.com/noah-isme/course-admin-api/internal/timeslot"
	appErrors "github.com/noah-isme/course-admin-api/pkg/errors"
	"github.com/noah-isme/course-admin-api/pkg/export"
)

// Supported timetable export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

const timetableTimeHeader = "Time"

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type slotLister interface {
	List(ctx context.Context, courseID, term string) ([]models.CourseSlot, error)
}

// ExportResult is a rendered timetable ready to be sent as an attachment.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the weekly timetable of a course.
type ExportService struct {
	courses courseFinder
	slots   slotLister
	codec   *timeslot.Codec
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(courses courseFinder, slots slotLister, codec *timeslot.Codec, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if codec == nil {
		codec = timeslot.NewDefaultCodec()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{courses: courses, slots: slots, codec: codec, csv: csv, pdf: pdf, logger: logger}
}

// Timetable renders the course's slots in term as a grid of hours by days.
func (s *ExportService) Timetable(ctx context.Context, courseID, term, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if term == "" {
		term = course.Term
	}
	slots, err := s.slots.List(ctx, courseID, term)
	if err != nil {
		return nil, err
	}

	label := courseLabel(course)
	dataset := s.WeeklyGrid(slots, label)
	title := fmt.Sprintf("%s %s timetable", label, term)

	var payload []byte
	result := &ExportResult{Filename: timetableFilename(course, term, format)}
	switch format {
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
		result.ContentType = "application/pdf"
	default:
		payload, err = s.csv.Render(dataset)
		result.ContentType = "text/csv"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}
	result.Payload = payload
	s.logger.Debug("timetable exported", zap.String("course_id", courseID), zap.String("format", format), zap.Int("slots", len(slots)))
	return result, nil
}

// WeeklyGrid lays slots out with one row per hour and one column per day. Every cell a slot
// covers, from its start id up to but excluding its end id, holds label. Slots with ids the
// codec cannot place are skipped.
func (s *ExportService) WeeklyGrid(slots []models.CourseSlot, label string) export.Dataset {
	days := s.codec.Days()
	hours := s.codec.Hours()

	headers := make([]string, 0, len(days)+1)
	headers = append(headers, timetableTimeHeader)
	for _, day := range days {
		headers = append(headers, day.Name)
	}

	rows := make([]map[string]string, len(hours))
	rowByLabel := make(map[string]map[string]string, len(hours))
	for i, hour := range hours {
		rows[i] = map[string]string{timetableTimeHeader: hour.Label}
		rowByLabel[hour.Label] = rows[i]
	}

	for _, slot := range slots {
		if err := s.codec.Validate(slot.Range()); err != nil {
			s.logger.Warn("skipping unplaceable slot", zap.String("slot_id", slot.ID), zap.Error(err))
			continue
		}
		for id := slot.StartTimeID; id < slot.EndTimeID; id++ {
			cell := s.codec.TryDecode(id)
			rowByLabel[cell.Hour][cell.Day] = label
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func courseLabel(course *models.Course) string {
	if course.SectionName == "" {
		return course.CourseCode
	}
	return course.CourseCode + " " + course.SectionName
}

func timetableFilename(course *models.Course, term, format string) string {
	name := strings.ToLower(strings.Join(strings.Fields(courseLabel(course)+" "+term), "-"))
	return fmt.Sprintf("%s-timetable.%s", name, format)
}
