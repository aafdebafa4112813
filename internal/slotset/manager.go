// Package slotset keeps the editable list of weekly meetings for one course and term.
//
// Slots of a course that is not stored yet are kept as local drafts. Once the course exists every
// add and remove is confirmed by the store before the local list changes, and drafts are written
// out in order by Flush.
package slotset

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/noah-isme/course-admin-api/internal/dto"
	"github.com/noah-isme/course-admin-api/internal/models"
	"github.com/noah-isme/course-admin-api/internal/timeslot"
)

var (
	// ErrRemoteFailure wraps every store failure. Local state is unchanged when it is returned.
	ErrRemoteFailure = errors.New("remote failure")
	// ErrIndexOutOfRange reports a caller bug: the index does not address a slot.
	ErrIndexOutOfRange = errors.New("slot index out of range")
	// ErrCourseAlreadyPersisted is returned when flushing into a different course than the one bound.
	ErrCourseAlreadyPersisted = errors.New("manager already bound to another course")
	// ErrMissingCourseID is returned by Flush without a course id.
	ErrMissingCourseID = errors.New("course id is required")
)

// Store persists course slots.
type Store interface {
	ListCourseSlots(ctx context.Context, courseID, term string) ([]models.CourseSlot, error)
	CreateCourseSlot(ctx context.Context, courseID string, req dto.CreateCourseSlotRequest) (*models.CourseSlot, error)
	DeleteCourseSlot(ctx context.Context, courseID, slotID, term string) error
}

// Manager owns the slot list of the course currently being edited. It is not safe for concurrent
// use; callers issue one operation at a time.
type Manager struct {
	codec  *timeslot.Codec
	store  Store
	logger *zap.Logger

	courseID string
	term     string
	slots    []models.CourseSlot
}

// NewManager builds a manager for a course that is not stored yet.
func NewManager(codec *timeslot.Codec, store Store, logger *zap.Logger) *Manager {
	if codec == nil {
		codec = timeslot.NewDefaultCodec()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{codec: codec, store: store, logger: logger}
}

// CourseID returns the bound course id, empty while the course is a draft.
func (m *Manager) CourseID() string {
	return m.courseID
}

// Term returns the term the slots belong to.
func (m *Manager) Term() string {
	return m.term
}

// Persisted reports whether the owning course exists in the store.
func (m *Manager) Persisted() bool {
	return m.courseID != ""
}

// Slots returns a copy of the current list.
func (m *Manager) Slots() []models.CourseSlot {
	return append([]models.CourseSlot{}, m.slots...)
}

// Load binds the manager to courseID and term and fetches the stored slots. An empty courseID
// starts a draft course with no slots. On failure the list is emptied.
func (m *Manager) Load(ctx context.Context, courseID, term string) ([]models.CourseSlot, error) {
	m.courseID = courseID
	m.term = term
	m.slots = nil

	if courseID == "" {
		return m.Slots(), nil
	}

	slots, err := m.store.ListCourseSlots(ctx, courseID, term)
	if err != nil {
		m.logger.Warn("failed to load course slots",
			zap.String("course_id", courseID),
			zap.String("term", term),
			zap.Error(err),
		)
		return m.Slots(), remoteFailure("list course slots", err)
	}

	m.slots = append(m.slots, slots...)
	return m.Slots(), nil
}

// AddSlot appends a meeting on day from startHour to endHour. Codec errors are returned as is.
func (m *Manager) AddSlot(ctx context.Context, day string, startHour, endHour int) ([]models.CourseSlot, error) {
	r, err := m.codec.MakeRange(day, startHour, endHour)
	if err != nil {
		return nil, err
	}

	if !m.Persisted() {
		m.slots = append(m.slots, models.CourseSlot{StartTimeID: r.StartID, EndTimeID: r.EndID})
		return m.Slots(), nil
	}

	created, err := m.create(ctx, r)
	if err != nil {
		m.logger.Warn("failed to add course slot",
			zap.String("course_id", m.courseID),
			zap.String("term", m.term),
			zap.Int("start_time_id", r.StartID),
			zap.Int("end_time_id", r.EndID),
			zap.Error(err),
		)
		return nil, err
	}

	m.slots = append(m.slots, *created)
	return m.Slots(), nil
}

// RemoveSlot drops the slot at index. Stored slots of a stored course are deleted remotely first.
func (m *Manager) RemoveSlot(ctx context.Context, index int) ([]models.CourseSlot, error) {
	if index < 0 || index >= len(m.slots) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(m.slots))
	}

	slot := m.slots[index]
	if slot.Persisted() && m.Persisted() {
		if err := m.store.DeleteCourseSlot(ctx, m.courseID, slot.ID, m.term); err != nil {
			m.logger.Warn("failed to delete course slot",
				zap.String("course_id", m.courseID),
				zap.String("slot_id", slot.ID),
				zap.String("term", m.term),
				zap.Error(err),
			)
			return nil, remoteFailure("delete course slot", err)
		}
	}

	m.slots = slices.Delete(m.slots, index, index+1)
	return m.Slots(), nil
}

// Describe renders the slot at index for display.
func (m *Manager) Describe(index int) string {
	if index < 0 || index >= len(m.slots) {
		return timeslot.UnknownLabel
	}
	return m.codec.DescribeRange(m.slots[index].Range())
}

func (m *Manager) create(ctx context.Context, r timeslot.Range) (*models.CourseSlot, error) {
	created, err := m.store.CreateCourseSlot(ctx, m.courseID, dto.CreateCourseSlotRequest{
		Term:        m.term,
		StartTimeID: r.StartID,
		EndTimeID:   r.EndID,
	})
	if err != nil {
		return nil, remoteFailure("create course slot", err)
	}
	if created == nil || !created.Persisted() {
		return nil, remoteFailure("create course slot", errors.New("store returned no slot id"))
	}
	return created, nil
}

func remoteFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRemoteFailure, op, err)
}
