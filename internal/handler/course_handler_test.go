package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-admin-api/internal/dto"
	"github.com/noah-isme/course-admin-api/internal/models"
	appErrors "github.com/noah-isme/course-admin-api/pkg/errors"
)

type courseServiceMock struct {
	listResp   []models.Course
	lastFilter models.CourseFilter
	getResp    *models.Course
	getErr     error
	createReq  dto.CourseRequest
	createErr  error
	deletedID  string
	deleteTerm string
}

func (m *courseServiceMock) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	m.lastFilter = filter
	return m.listResp, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(m.listResp)}, nil
}

func (m *courseServiceMock) Get(ctx context.Context, id string) (*models.Course, error) {
	return m.getResp, m.getErr
}

func (m *courseServiceMock) Create(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	m.createReq = req
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Course{ID: "c1", CourseCode: req.CourseCode, Term: req.Term}, nil
}

func (m *courseServiceMock) Update(ctx context.Context, id string, req dto.CourseRequest) (*models.Course, error) {
	return &models.Course{ID: id, CourseCode: req.CourseCode}, nil
}

func (m *courseServiceMock) Delete(ctx context.Context, id, term string) error {
	m.deletedID = id
	m.deleteTerm = term
	return nil
}

type envelopeBody struct {
	Data       json.RawMessage    `json:"data"`
	Error      *appErrors.Error   `json:"error"`
	Pagination *models.Pagination `json:"pagination"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelopeBody {
	t.Helper()
	var body envelopeBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCourseHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &courseServiceMock{listResp: []models.Course{{ID: "c1", CourseCode: "MATH101"}}}
	handler := NewCourseHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/courses?search=%20calc%20&term=2024-1&page=2&limit=10", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "calc", mockSvc.lastFilter.Search)
	assert.Equal(t, "2024-1", mockSvc.lastFilter.Term)
	assert.Equal(t, 2, mockSvc.lastFilter.Page)
	assert.Equal(t, 10, mockSvc.lastFilter.PageSize)

	body := decodeEnvelope(t, w)
	var data dto.CourseListResponse
	require.NoError(t, json.Unmarshal(body.Data, &data))
	require.Len(t, data.Courses, 1)
	assert.Equal(t, "MATH101", data.Courses[0].CourseCode)
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 1, body.Pagination.TotalCount)
}

func TestCourseHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &courseServiceMock{}
	handler := NewCourseHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/courses", bytes.NewBufferString(`{"course_code":"CS101","course_name":"Intro","term":"2024-1","credits":3}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 3, mockSvc.createReq.Credits)

	var data dto.CourseResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.Equal(t, "c1", data.Course.ID)
}

func TestCourseHandlerCreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCourseHandler(&courseServiceMock{createErr: appErrors.Clone(appErrors.ErrConflict, "course section already exists in term")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/courses", bytes.NewBufferString(`{"course_code":"CS101","course_name":"Intro","term":"2024-1"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
	body := decodeEnvelope(t, w)
	require.NotNil(t, body.Error)
	assert.Equal(t, "CONFLICT", body.Error.Code)
	assert.Equal(t, http.StatusConflict, body.Error.Status)
}

func TestCourseHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCourseHandler(&courseServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/courses", bytes.NewBufferString(`{"course_code":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCourseHandler(&courseServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "course not found")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/courses/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourseHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &courseServiceMock{}
	router := gin.New()
	router.DELETE("/courses/:id", NewCourseHandler(mockSvc).Delete)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/courses/c1?term=2024-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "c1", mockSvc.deletedID)
	assert.Equal(t, "2024-1", mockSvc.deleteTerm)
}
