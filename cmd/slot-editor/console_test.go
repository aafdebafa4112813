package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-admin-api/internal/dto"
	"github.com/noah-isme/course-admin-api/internal/models"
	"github.com/noah-isme/course-admin-api/internal/slotset"
	"github.com/noah-isme/course-admin-api/internal/timeslot"
)

type fakeAdmin struct {
	courses   []models.Course
	slots     map[string][]models.CourseSlot
	failAfter int
	created   int
	deleted   []string
}

func newFakeAdmin() *fakeAdmin {
	return &fakeAdmin{slots: make(map[string][]models.CourseSlot), failAfter: -1}
}

func (f *fakeAdmin) ListCourses(ctx context.Context, search, term string) ([]models.Course, error) {
	var out []models.Course
	for _, course := range f.courses {
		if (term == "" || course.Term == term) && strings.Contains(course.CourseName, search) {
			out = append(out, course)
		}
	}
	return out, nil
}

func (f *fakeAdmin) ListTerms(ctx context.Context) ([]string, error) {
	return []string{"2024-2", "2024-1"}, nil
}

func (f *fakeAdmin) CreateCourse(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	course := models.Course{ID: fmt.Sprintf("course-%d", len(f.courses)+1), CourseCode: req.CourseCode, SectionName: req.SectionName, CourseName: req.CourseName, Term: req.Term}
	f.courses = append(f.courses, course)
	return &course, nil
}

func (f *fakeAdmin) DeleteCourse(ctx context.Context, courseID, term string) error {
	f.deleted = append(f.deleted, courseID)
	delete(f.slots, courseID)
	return nil
}

func (f *fakeAdmin) ListCourseSlots(ctx context.Context, courseID, term string) ([]models.CourseSlot, error) {
	return f.slots[courseID], nil
}

func (f *fakeAdmin) CreateCourseSlot(ctx context.Context, courseID string, req dto.CreateCourseSlotRequest) (*models.CourseSlot, error) {
	if f.failAfter >= 0 && f.created >= f.failAfter {
		return nil, errors.New("service unavailable")
	}
	f.created++
	slot := models.CourseSlot{ID: fmt.Sprintf("slot-%d", f.created), CourseID: courseID, Term: req.Term, StartTimeID: req.StartTimeID, EndTimeID: req.EndTimeID}
	f.slots[courseID] = append(f.slots[courseID], slot)
	return &slot, nil
}

func (f *fakeAdmin) DeleteCourseSlot(ctx context.Context, courseID, slotID, term string) error {
	return nil
}

func newTestConsole(admin *fakeAdmin, term string) (*console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	manager := slotset.NewManager(timeslot.NewDefaultCodec(), admin, nil)
	return newConsole(admin, manager, out, nil, term), out
}

func TestConsoleDraftCourseCreate(t *testing.T) {
	admin := newFakeAdmin()
	con, out := newTestConsole(admin, "")

	script := strings.Join([]string{
		"add Tuesday 9 11",
		"add Thursday 14 15",
		"ls",
		"create CS101 A Intro to Computing",
		"quit",
	}, "\n")
	require.NoError(t, con.run(context.Background(), strings.NewReader(script)))

	require.Len(t, admin.courses, 1)
	assert.Equal(t, "Intro to Computing", admin.courses[0].CourseName)
	assert.Equal(t, "2024-2", admin.courses[0].Term)
	require.Len(t, admin.slots["course-1"], 2)
	assert.Equal(t, 16, admin.slots["course-1"][0].StartTimeID)

	text := out.String()
	assert.Contains(t, text, "0\tTuesday 09:40 - 11:40\tdraft")
	assert.Contains(t, text, "stored 2 meetings")
	assert.Equal(t, "course-1", con.manager.CourseID())
}

func TestConsolePartialCreateThenSave(t *testing.T) {
	admin := newFakeAdmin()
	admin.failAfter = 1
	con, out := newTestConsole(admin, "2024-1")
	ctx := context.Background()

	require.NoError(t, con.exec(ctx, []string{"add", "Monday", "8", "9"}))
	require.NoError(t, con.exec(ctx, []string{"add", "Monday", "10", "12"}))

	err := con.exec(ctx, []string{"create", "MATH1", "01", "Calculus"})
	require.Error(t, err)
	assert.ErrorIs(t, err, slotset.ErrRemoteFailure)
	assert.Contains(t, out.String(), "stored 1 meetings, meeting 1 failed")

	admin.failAfter = -1
	require.NoError(t, con.exec(ctx, []string{"save"}))
	assert.Len(t, admin.slots["course-1"], 2)
}

func TestConsoleOpenAndDelete(t *testing.T) {
	admin := newFakeAdmin()
	admin.courses = []models.Course{{ID: "c9", CourseCode: "PHY1", CourseName: "Physics", Term: "2024-1"}}
	admin.slots["c9"] = []models.CourseSlot{{ID: "s1", CourseID: "c9", StartTimeID: 29, EndTimeID: 31}}
	con, out := newTestConsole(admin, "2024-1")
	ctx := context.Background()

	require.NoError(t, con.exec(ctx, []string{"courses", "Phys"}))
	assert.Contains(t, out.String(), "c9\tPHY1 \tPhysics\t2024-1")

	require.NoError(t, con.exec(ctx, []string{"open", "c9"}))
	assert.Contains(t, out.String(), "0\tWednesday 08:40 - 10:40\tstored")

	require.NoError(t, con.exec(ctx, []string{"delete"}))
	assert.Equal(t, []string{"c9"}, admin.deleted)
	assert.False(t, con.manager.Persisted())
}

func TestConsoleRejectsBadInput(t *testing.T) {
	con, _ := newTestConsole(newFakeAdmin(), "2024-1")
	ctx := context.Background()

	assert.ErrorIs(t, con.exec(ctx, []string{"add", "monday", "9", "10"}), timeslot.ErrInvalidDay)
	assert.ErrorIs(t, con.exec(ctx, []string{"add", "Monday", "10", "9"}), timeslot.ErrInvalidRange)
	assert.ErrorIs(t, con.exec(ctx, []string{"rm", "3"}), slotset.ErrIndexOutOfRange)
	assert.Error(t, con.exec(ctx, []string{"add", "Monday", "x", "9"}))
	assert.Error(t, con.exec(ctx, []string{"save"}))
	assert.Error(t, con.exec(ctx, []string{"frobnicate"}))
}
