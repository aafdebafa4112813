package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/course-admin-api/internal/dto"
	"github.com/noah-isme/course-admin-api/internal/slotset"
	"github.com/noah-isme/course-admin-api/internal/timeslot"
)

var _ slotset.Store = (*AdminClient)(nil)

func newTestServer(t *testing.T, handler http.HandlerFunc) *AdminClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/v1/", srv.Client())
}

func TestAdminClientListCourseSlots(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/courses/c%201/slots", r.URL.EscapedPath())
		assert.Equal(t, "2024-1", r.URL.Query().Get("term"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"slots":[{"id":"s1","course_id":"c 1","term":"2024-1","start_time_id":16,"end_time_id":18}]}}`)
	})

	slots, err := c.ListCourseSlots(context.Background(), "c 1", "2024-1")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "s1", slots[0].ID)
	assert.Equal(t, 16, slots[0].StartTimeID)
	assert.Equal(t, 18, slots[0].EndTimeID)
}

func TestAdminClientCreateCourseSlot(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"term":"2024-1","start_time_id":2,"end_time_id":4}`, string(body))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"data":{"slot":{"id":"new","course_id":"c1","term":"2024-1","start_time_id":2,"end_time_id":4}}}`)
	})

	slot, err := c.CreateCourseSlot(context.Background(), "c1", dto.CreateCourseSlotRequest{Term: "2024-1", StartTimeID: 2, EndTimeID: 4})
	require.NoError(t, err)
	assert.Equal(t, "new", slot.ID)
}

func TestAdminClientSurfacesAPIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":{"code":"CONFLICT","message":"slot overlaps an existing slot","status":409}}`)
	})

	_, err := c.CreateCourseSlot(context.Background(), "c1", dto.CreateCourseSlotRequest{Term: "2024-1", StartTimeID: 2, EndTimeID: 4})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "CONFLICT", apiErr.Code)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "slot overlaps an existing slot", apiErr.Message)
}

func TestAdminClientNonEnvelopeError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	err := c.DeleteCourseSlot(context.Background(), "c1", "s1", "2024-1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestAdminClientDeleteCourse(t *testing.T) {
	called := false
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/courses/c1", r.URL.Path)
		assert.Equal(t, "2024-1", r.URL.Query().Get("term"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteCourse(context.Background(), "c1", "2024-1"))
	assert.True(t, called)
}

func TestAdminClientListCoursesAndTerms(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/courses":
			assert.Equal(t, "calc", r.URL.Query().Get("search"))
			assert.Empty(t, r.URL.Query().Get("term"))
			_, _ = io.WriteString(w, `{"data":{"courses":[{"id":"c1","course_code":"MATH101","course_name":"Calculus","term":"2024-1"}]},"pagination":{"page":1,"page_size":20,"total_count":1}}`)
		case "/api/v1/terms":
			_, _ = io.WriteString(w, `{"data":{"terms":["2024-2","2024-1"]}}`)
		default:
			http.NotFound(w, r)
		}
	})

	courses, err := c.ListCourses(context.Background(), "calc", "")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "MATH101", courses[0].CourseCode)

	terms, err := c.ListTerms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-2", "2024-1"}, terms)
	assert.Equal(t, "2024-2", DefaultTerm("", terms))
	assert.Equal(t, "2023-2", DefaultTerm("2023-2", terms))
	assert.Equal(t, "", DefaultTerm("", nil))
}

func TestAdminClientCreateCourse(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"data":{"course":{"id":"c42","course_code":"CS101","course_name":"Intro","term":"2024-1","credits":3}}}`)
	})

	course, err := c.CreateCourse(context.Background(), dto.CourseRequest{CourseCode: "CS101", CourseName: "Intro", Term: "2024-1", Credits: 3})
	require.NoError(t, err)
	assert.Equal(t, "c42", course.ID)
}

func TestAdminClientTimeSlotCatalogBuildsMatchingCodec(t *testing.T) {
	local := timeslot.NewDefaultCodec()
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/timeslots", r.URL.Path)
		_, _ = io.WriteString(w, `{"data":{"days":[{"name":"Monday","offset":1},{"name":"Tuesday","offset":15},{"name":"Wednesday","offset":29},{"name":"Thursday","offset":43},{"name":"Friday","offset":57}],"hours":[{"hour":8,"label":"08:40"},{"hour":9,"label":"09:40"},{"hour":10,"label":"10:40"},{"hour":11,"label":"11:40"},{"hour":12,"label":"12:40"},{"hour":13,"label":"13:40"},{"hour":14,"label":"14:40"},{"hour":15,"label":"15:40"},{"hour":16,"label":"16:40"},{"hour":17,"label":"17:40"},{"hour":18,"label":"18:40"},{"hour":19,"label":"19:40"},{"hour":20,"label":"20:40"},{"hour":21,"label":"21:40"}],"hours_per_day":14,"max_id":71}}`)
	})

	catalog, err := c.TimeSlotCatalog(context.Background())
	require.NoError(t, err)
	remote, err := timeslot.NewCodec(timeslot.Schedule{Days: catalog.Days, Hours: catalog.Hours})
	require.NoError(t, err)
	assert.Equal(t, local.Days(), remote.Days())
	assert.Equal(t, local.Hours(), remote.Hours())
	assert.Equal(t, catalog.MaxID, remote.MaxID())
}

func TestAdminClientDrivesSlotManager(t *testing.T) {
	var created int
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		created++
		if created == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":{"code":"INTERNAL_ERROR","message":"internal server error","status":500}}`)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"data":{"slot":{"id":"s1","start_time_id":2,"end_time_id":3}}}`)
	})

	m := slotset.NewManager(timeslot.NewDefaultCodec(), c, zap.NewNop())
	ctx := context.Background()
	_, err := m.AddSlot(ctx, timeslot.Monday, 9, 10)
	require.NoError(t, err)
	_, err = m.AddSlot(ctx, timeslot.Monday, 11, 12)
	require.NoError(t, err)

	result, err := m.Flush(ctx, "c1", "2024-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, slotset.ErrRemoteFailure)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "INTERNAL_ERROR", apiErr.Code)
	assert.Equal(t, []int{0}, result.Flushed)
	assert.Equal(t, 1, result.FailedIndex)
}
