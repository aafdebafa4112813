package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-admin-api/internal/dto"
	"github.com/noah-isme/course-admin-api/internal/models"
	"github.com/noah-isme/course-admin-api/internal/timeslot"
	appErrors "github.com/noah-isme/course-admin-api/pkg/errors"
)

type courseSlotRepository interface {
	ListByCourse(ctx context.Context, courseID, term string) ([]models.CourseSlot, error)
	FindByID(ctx context.Context, id string) (*models.CourseSlot, error)
	Create(ctx context.Context, slot *models.CourseSlot) error
	Delete(ctx context.Context, id string) error
}

type courseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// CourseSlotService manages the weekly meetings of courses.
type CourseSlotService struct {
	courses   courseFinder
	repo      courseSlotRepository
	codec     *timeslot.Codec
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseSlotService constructs CourseSlotService.
func NewCourseSlotService(courses courseFinder, repo courseSlotRepository, codec *timeslot.Codec, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseSlotService {
	if codec == nil {
		codec = timeslot.NewDefaultCodec()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseSlotService{courses: courses, repo: repo, codec: codec, metrics: metrics, validator: validate, logger: logger}
}

// List returns the slots of a course in term. An empty term means the course's own term.
func (s *CourseSlotService) List(ctx context.Context, courseID, term string) ([]models.CourseSlot, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if term == "" {
		term = course.Term
	}
	slots, err := s.repo.ListByCourse(ctx, courseID, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course slots")
	}
	if slots == nil {
		slots = []models.CourseSlot{}
	}
	return slots, nil
}

// Create validates and stores one slot.
func (s *CourseSlotService) Create(ctx context.Context, courseID string, req dto.CreateCourseSlotRequest) (*models.CourseSlot, error) {
	req.Term = strings.TrimSpace(req.Term)
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordSlotRejected(SlotRejectInvalid)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course slot payload")
	}

	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrNotFound.Code {
			s.metrics.RecordSlotRejected(SlotRejectNotFound)
		}
		return nil, err
	}
	if req.Term != course.Term {
		s.metrics.RecordSlotRejected(SlotRejectTerm)
		return nil, appErrors.Clone(appErrors.ErrValidation, "term does not match the course term")
	}

	r, err := s.codec.RangeFromIDs(req.StartTimeID, req.EndTimeID)
	if err != nil {
		s.metrics.RecordSlotRejected(SlotRejectInvalid)
		return nil, rangeError(err)
	}

	existing, err := s.repo.ListByCourse(ctx, courseID, req.Term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course slots")
	}
	for _, other := range existing {
		if r.Overlaps(other.Range()) {
			s.metrics.RecordSlotRejected(SlotRejectOverlap)
			return nil, appErrors.Clone(appErrors.ErrConflict, "slot overlaps "+s.codec.DescribeRange(other.Range()))
		}
	}

	slot := &models.CourseSlot{CourseID: courseID, Term: req.Term, StartTimeID: r.StartID, EndTimeID: r.EndID}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course slot")
	}
	s.metrics.RecordSlotCreated()
	s.logger.Info("course slot created",
		zap.String("course_id", courseID),
		zap.String("slot_id", slot.ID),
		zap.String("range", s.codec.DescribeRange(r)),
	)
	return slot, nil
}

// Delete removes a slot that belongs to the course and, when given, the term.
func (s *CourseSlotService) Delete(ctx context.Context, courseID, slotID, term string) error {
	slot, err := s.repo.FindByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course slot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course slot")
	}
	if slot.CourseID != courseID || (term != "" && slot.Term != term) {
		return appErrors.Clone(appErrors.ErrNotFound, "course slot not found")
	}
	if err := s.repo.Delete(ctx, slotID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course slot")
	}
	s.metrics.RecordSlotDeleted()
	s.logger.Info("course slot deleted", zap.String("course_id", courseID), zap.String("slot_id", slotID))
	return nil
}

func (s *CourseSlotService) loadCourse(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

func rangeError(err error) *appErrors.Error {
	var base *appErrors.Error
	switch {
	case errors.Is(err, timeslot.ErrOutOfRange):
		base = appErrors.ErrOutOfRange
	case errors.Is(err, timeslot.ErrCrossDayRange):
		base = appErrors.ErrCrossDayRange
	case errors.Is(err, timeslot.ErrInvalidRange):
		base = appErrors.ErrInvalidRange
	case errors.Is(err, timeslot.ErrInvalidDay):
		base = appErrors.ErrInvalidDay
	case errors.Is(err, timeslot.ErrInvalidHour):
		base = appErrors.ErrInvalidHour
	default:
		base = appErrors.ErrValidation
	}
	return appErrors.Wrap(err, base.Code, base.Status, base.Message)
}
