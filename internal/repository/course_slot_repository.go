package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-admin-api/internal/models"
)

// CourseSlotRepository manages weekly slots of courses.
type CourseSlotRepository struct {
	db *sqlx.DB
}

// NewCourseSlotRepository builds repository.
func NewCourseSlotRepository(db *sqlx.DB) *CourseSlotRepository {
	return &CourseSlotRepository{db: db}
}

// ListByCourse returns slots of a course in a term ordered by start id.
func (r *CourseSlotRepository) ListByCourse(ctx context.Context, courseID, term string) ([]models.CourseSlot, error) {
	const query = `SELECT id, course_id, term, start_time_id, end_time_id, created_at
FROM course_slots WHERE course_id = $1 AND term = $2 ORDER BY start_time_id ASC, created_at ASC`
	slots := []models.CourseSlot{}
	if err := r.db.SelectContext(ctx, &slots, query, courseID, term); err != nil {
		return nil, fmt.Errorf("list course slots: %w", err)
	}
	return slots, nil
}

// FindByID returns one slot.
func (r *CourseSlotRepository) FindByID(ctx context.Context, id string) (*models.CourseSlot, error) {
	const query = `SELECT id, course_id, term, start_time_id, end_time_id, created_at FROM course_slots WHERE id = $1`
	var slot models.CourseSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a slot.
func (r *CourseSlotRepository) Create(ctx context.Context, slot *models.CourseSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO course_slots (id, course_id, term, start_time_id, end_time_id, created_at)
VALUES (:id, :course_id, :term, :start_time_id, :end_time_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create course slot: %w", err)
	}
	return nil
}

// Delete removes a slot.
func (r *CourseSlotRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM course_slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course slot: %w", err)
	}
	return nil
}
