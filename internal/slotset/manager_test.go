package slotset

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-admin-api/internal/dto"
	"github.com/noah-isme/course-admin-api/internal/models"
	"github.com/noah-isme/course-admin-api/internal/timeslot"
)

type createCall struct {
	courseID string
	req      dto.CreateCourseSlotRequest
}

type deleteCall struct {
	courseID string
	slotID   string
	term     string
}

type mockStore struct {
	listResult []models.CourseSlot
	listErr    error
	listCalls  int

	createCalls []createCall
	// failCreateAt makes the n-th create call (1-based) fail.
	failCreateAt int
	createErr    error

	deleteCalls []deleteCall
	deleteErr   error
}

func (m *mockStore) ListCourseSlots(ctx context.Context, courseID, term string) ([]models.CourseSlot, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listResult, nil
}

func (m *mockStore) CreateCourseSlot(ctx context.Context, courseID string, req dto.CreateCourseSlotRequest) (*models.CourseSlot, error) {
	m.createCalls = append(m.createCalls, createCall{courseID: courseID, req: req})
	n := len(m.createCalls)
	if m.createErr != nil && (m.failCreateAt == 0 || m.failCreateAt == n) {
		return nil, m.createErr
	}
	return &models.CourseSlot{
		ID:          fmt.Sprintf("slot-%d", n),
		CourseID:    courseID,
		Term:        req.Term,
		StartTimeID: req.StartTimeID,
		EndTimeID:   req.EndTimeID,
	}, nil
}

func (m *mockStore) DeleteCourseSlot(ctx context.Context, courseID, slotID, term string) error {
	m.deleteCalls = append(m.deleteCalls, deleteCall{courseID: courseID, slotID: slotID, term: term})
	return m.deleteErr
}

func newTestManager(store *mockStore) *Manager {
	return NewManager(timeslot.NewDefaultCodec(), store, zap.NewNop())
}

func TestManagerLoadDraftCourseSkipsStore(t *testing.T) {
	store := &mockStore{}
	m := newTestManager(store)

	slots, err := m.Load(context.Background(), "", "2024-1")
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Zero(t, store.listCalls)
	assert.False(t, m.Persisted())
	assert.Equal(t, "2024-1", m.Term())
}

func TestManagerLoadPersistedCourse(t *testing.T) {
	store := &mockStore{listResult: []models.CourseSlot{{ID: "s1", StartTimeID: 16, EndTimeID: 18}}}
	m := newTestManager(store)

	slots, err := m.Load(context.Background(), "course-1", "2024-1")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "s1", slots[0].ID)
	assert.True(t, m.Persisted())
	assert.Equal(t, "Tuesday 09:40 - 11:40", m.Describe(0))
}

func TestManagerLoadFailureResetsToEmpty(t *testing.T) {
	store := &mockStore{listResult: []models.CourseSlot{{ID: "s1", StartTimeID: 16, EndTimeID: 18}}}
	m := newTestManager(store)
	_, err := m.Load(context.Background(), "course-1", "2024-1")
	require.NoError(t, err)

	store.listErr = errors.New("connection refused")
	slots, err := m.Load(context.Background(), "course-1", "2024-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteFailure)
	assert.Empty(t, slots)
	assert.Empty(t, m.Slots())
}

func TestManagerAddSlotDraftCourse(t *testing.T) {
	store := &mockStore{}
	m := newTestManager(store)

	slots, err := m.AddSlot(context.Background(), timeslot.Tuesday, 9, 11)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, models.CourseSlot{StartTimeID: 16, EndTimeID: 18}, slots[0])
	assert.False(t, slots[0].Persisted())
	assert.Empty(t, store.createCalls)
}

func TestManagerAddSlotPersistedCourse(t *testing.T) {
	store := &mockStore{}
	m := newTestManager(store)
	_, err := m.Load(context.Background(), "course-1", "2024-1")
	require.NoError(t, err)

	slots, err := m.AddSlot(context.Background(), timeslot.Monday, 8, 10)
	require.NoError(t, err)
	require.Len(t, store.createCalls, 1)
	assert.Equal(t, createCall{courseID: "course-1", req: dto.CreateCourseSlotRequest{Term: "2024-1", StartTimeID: 1, EndTimeID: 3}}, store.createCalls[0])
	require.Len(t, slots, 1)
	assert.Equal(t, "slot-1", slots[0].ID)
}

func TestManagerAddSlotRejectsInvalidRange(t *testing.T) {
	store := &mockStore{}
	m := newTestManager(store)
	_, err := m.Load(context.Background(), "course-1", "2024-1")
	require.NoError(t, err)

	_, err = m.AddSlot(context.Background(), timeslot.Monday, 10, 10)
	assert.ErrorIs(t, err, timeslot.ErrInvalidRange)

	_, err = m.AddSlot(context.Background(), "Someday", 9, 10)
	assert.ErrorIs(t, err, timeslot.ErrInvalidDay)

	assert.Empty(t, store.createCalls)
	assert.Empty(t, m.Slots())
}

func TestManagerAddSlotRemoteFailureLeavesListUnchanged(t *testing.T) {
	store := &mockStore{createErr: errors.New("409 conflict")}
	m := newTestManager(store)
	_, err := m.Load(context.Background(), "course-1", "2024-1")
	require.NoError(t, err)

	_, err = m.AddSlot(context.Background(), timeslot.Friday, 9, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteFailure)
	assert.ErrorIs(t, err, store.createErr)
	assert.Empty(t, m.Slots())
}

func TestManagerRemovePersistedSlot(t *testing.T) {
	store := &mockStore{listResult: []models.CourseSlot{
		{ID: "s1", StartTimeID: 1, EndTimeID: 2},
		{ID: "s2", StartTimeID: 3, EndTimeID: 4},
	}}
	m := newTestManager(store)
	_, err := m.Load(context.Background(), "course-1", "2024-1")
	require.NoError(t, err)

	slots, err := m.RemoveSlot(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []deleteCall{{courseID: "course-1", slotID: "s1", term: "2024-1"}}, store.deleteCalls)
	require.Len(t, slots, 1)
	assert.Equal(t, "s2", slots[0].ID)
}

func TestManagerRemovePersistedSlotFailure(t *testing.T) {
	store := &mockStore{
		listResult: []models.CourseSlot{{ID: "s1", StartTimeID: 1, EndTimeID: 2}},
		deleteErr:  errors.New("timeout"),
	}
	m := newTestManager(store)
	_, err := m.Load(context.Background(), "course-1", "2024-1")
	require.NoError(t, err)

	_, err = m.RemoveSlot(context.Background(), 0)
	assert.ErrorIs(t, err, ErrRemoteFailure)
	assert.Len(t, m.Slots(), 1)
}

func TestManagerRemoveDraftSlotTwiceIsRejected(t *testing.T) {
	store := &mockStore{}
	m := newTestManager(store)
	_, err := m.AddSlot(context.Background(), timeslot.Monday, 9, 10)
	require.NoError(t, err)

	slots, err := m.RemoveSlot(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, slots)

	_, err = m.RemoveSlot(context.Background(), 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Empty(t, store.deleteCalls)

	_, err = m.RemoveSlot(context.Background(), -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestManagerRemoveDraftSlotOnPersistedCourse(t *testing.T) {
	store := &mockStore{createErr: errors.New("boom"), failCreateAt: 1}
	m := newTestManager(store)
	_, err := m.AddSlot(context.Background(), timeslot.Monday, 9, 10)
	require.NoError(t, err)

	_, err = m.Flush(context.Background(), "course-1", "2024-1")
	require.Error(t, err)
	require.True(t, m.Persisted())

	slots, err := m.RemoveSlot(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Empty(t, store.deleteCalls)
}

func TestManagerSlotsReturnsCopy(t *testing.T) {
	m := newTestManager(&mockStore{})
	_, err := m.AddSlot(context.Background(), timeslot.Monday, 9, 10)
	require.NoError(t, err)

	slots := m.Slots()
	slots[0].StartTimeID = 99

	assert.Equal(t, 2, m.Slots()[0].StartTimeID)
}
