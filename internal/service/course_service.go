package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-admin-api/internal/dto"
	"github.com/noah-isme/course-admin-api/internal/models"
	appErrors "github.com/noah-isme/course-admin-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ExistsBySection(ctx context.Context, code, section, term, excludeID string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id, term string) error
}

type termCacheInvalidator interface {
	InvalidateTerms(ctx context.Context)
}

// CourseService coordinates course operations.
type CourseService struct {
	repo      courseRepository
	terms     termCacheInvalidator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(repo courseRepository, terms termCacheInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, terms: terms, metrics: metrics, validator: validate, logger: logger}
}

// List returns courses with pagination metadata.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	start := time.Now()
	courses, total, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("courses_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return courses, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create adds a new course section.
func (s *CourseService) Create(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	req = normalizeCourseRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if err := s.ensureUniqueSection(ctx, req, ""); err != nil {
		return nil, err
	}

	course := &models.Course{}
	applyCourseRequest(course, req)
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("term", course.Term))
	s.invalidateTerms(ctx)
	return course, nil
}

// Update replaces the editable fields of a course.
func (s *CourseService) Update(ctx context.Context, id string, req dto.CourseRequest) (*models.Course, error) {
	req = normalizeCourseRequest(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueSection(ctx, req, id); err != nil {
		return nil, err
	}

	applyCourseRequest(course, req)
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	s.invalidateTerms(ctx)
	return course, nil
}

// Delete removes a course together with its slots in term.
func (s *CourseService) Delete(ctx context.Context, id, term string) error {
	course, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if term == "" {
		term = course.Term
	}
	if term != course.Term {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found in term")
	}
	if err := s.repo.Delete(ctx, id, term); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.logger.Info("course deleted", zap.String("course_id", id), zap.String("term", term))
	s.invalidateTerms(ctx)
	return nil
}

func (s *CourseService) ensureUniqueSection(ctx context.Context, req dto.CourseRequest, excludeID string) error {
	exists, err := s.repo.ExistsBySection(ctx, req.CourseCode, req.SectionName, req.Term, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course section")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "course section already exists in term")
	}
	return nil
}

func (s *CourseService) invalidateTerms(ctx context.Context) {
	if s.terms != nil {
		s.terms.InvalidateTerms(ctx)
	}
}

func normalizeCourseRequest(req dto.CourseRequest) dto.CourseRequest {
	req.CourseCode = strings.TrimSpace(req.CourseCode)
	req.CourseName = strings.TrimSpace(req.CourseName)
	req.SectionName = strings.TrimSpace(req.SectionName)
	req.Term = strings.TrimSpace(req.Term)
	return req
}

func applyCourseRequest(course *models.Course, req dto.CourseRequest) {
	course.CourseCode = req.CourseCode
	course.CourseName = req.CourseName
	course.SectionName = req.SectionName
	course.Faculty = req.Faculty
	course.Term = req.Term
	course.Lecturer = req.Lecturer
	course.Credits = req.Credits
	course.Prerequisites = req.Prerequisites
	course.Corequisites = req.Corequisites
	course.Description = req.Description
}
