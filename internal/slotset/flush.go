package slotset

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/course-admin-api/internal/models"
)

// FlushResult reports, by list index, what a flush did.
type FlushResult struct {
	CourseID     string `json:"course_id"`
	Flushed      []int  `json:"flushed"`
	Skipped      []int  `json:"skipped,omitempty"`
	FailedIndex  int    `json:"failed_index"`
	NotAttempted []int  `json:"not_attempted,omitempty"`
}

// Complete reports whether every draft was stored.
func (r FlushResult) Complete() bool {
	return r.FailedIndex < 0
}

// PartialFlushError is returned when a flush stops at a failing slot. Slots before it stay stored
// and the course is not rolled back.
type PartialFlushError struct {
	Result FlushResult
	Slot   models.CourseSlot
	Err    error
}

func (e *PartialFlushError) Error() string {
	return fmt.Sprintf("flush stopped at slot %d after storing %d, %d not attempted: %v",
		e.Result.FailedIndex, len(e.Result.Flushed), len(e.Result.NotAttempted), e.Err)
}

// Unwrap returns the store failure, which wraps ErrRemoteFailure.
func (e *PartialFlushError) Unwrap() error {
	return e.Err
}

// Flush binds the manager to a newly created course and stores every draft slot, one at a time,
// in list order. It stops at the first failure. Stored slots are skipped, so calling Flush again
// with the same course retries the remainder.
func (m *Manager) Flush(ctx context.Context, courseID, term string) (FlushResult, error) {
	result := FlushResult{CourseID: courseID, FailedIndex: -1}
	if courseID == "" {
		return result, ErrMissingCourseID
	}
	if m.courseID != "" && m.courseID != courseID {
		return result, fmt.Errorf("%w: %s", ErrCourseAlreadyPersisted, m.courseID)
	}

	m.courseID = courseID
	if term != "" {
		m.term = term
	}

	for i := range m.slots {
		if m.slots[i].Persisted() {
			result.Skipped = append(result.Skipped, i)
			continue
		}

		created, err := m.create(ctx, m.slots[i].Range())
		if err != nil {
			result.FailedIndex = i
			for j := i + 1; j < len(m.slots); j++ {
				if !m.slots[j].Persisted() {
					result.NotAttempted = append(result.NotAttempted, j)
				}
			}
			m.logger.Warn("course slot flush stopped",
				zap.String("course_id", courseID),
				zap.String("term", m.term),
				zap.Int("failed_index", i),
				zap.Int("flushed", len(result.Flushed)),
				zap.Error(err),
			)
			return result, &PartialFlushError{Result: result, Slot: m.slots[i], Err: err}
		}

		m.slots[i] = *created
		result.Flushed = append(result.Flushed, i)
	}

	m.logger.Debug("course slots flushed",
		zap.String("course_id", courseID),
		zap.Int("flushed", len(result.Flushed)),
	)
	return result, nil
}
