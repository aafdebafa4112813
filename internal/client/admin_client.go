// Package client talks to the course admin API over HTTP.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/noah-isme/course-admin-api/internal/dto"
	"github.com/noah-isme/course-admin-api/internal/models"
)

// APIError is an error envelope returned by the admin API, kept verbatim.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("admin api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("admin api: %s (%d): %s", e.Code, e.Status, e.Message)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *APIError       `json:"error"`
}

// AdminClient is a typed client for the course admin endpoints.
type AdminClient struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client rooted at baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL string, httpClient *http.Client) *AdminClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &AdminClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// ListCourses searches courses by free text and optional term.
func (c *AdminClient) ListCourses(ctx context.Context, search, term string) ([]models.Course, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if term != "" {
		query.Set("term", term)
	}
	var out dto.CourseListResponse
	if err := c.do(ctx, http.MethodGet, "/courses", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Courses, nil
}

// ListTerms returns the known term names, newest first.
func (c *AdminClient) ListTerms(ctx context.Context) ([]string, error) {
	var out dto.TermListResponse
	if err := c.do(ctx, http.MethodGet, "/terms", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Terms, nil
}

// CreateCourse stores a new course and returns it with its id.
func (c *AdminClient) CreateCourse(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	var out dto.CourseResponse
	if err := c.do(ctx, http.MethodPost, "/courses", nil, req, &out); err != nil {
		return nil, err
	}
	if out.Course == nil {
		return nil, fmt.Errorf("admin api: create course returned no course")
	}
	return out.Course, nil
}

// UpdateCourse replaces the editable fields of a course.
func (c *AdminClient) UpdateCourse(ctx context.Context, courseID string, req dto.CourseRequest) (*models.Course, error) {
	var out dto.CourseResponse
	if err := c.do(ctx, http.MethodPut, "/courses/"+url.PathEscape(courseID), nil, req, &out); err != nil {
		return nil, err
	}
	return out.Course, nil
}

// DeleteCourse removes a course and its slots for term.
func (c *AdminClient) DeleteCourse(ctx context.Context, courseID, term string) error {
	return c.do(ctx, http.MethodDelete, "/courses/"+url.PathEscape(courseID), termQuery(term), nil, nil)
}

// ListCourseSlots returns the stored slots of a course in a term.
func (c *AdminClient) ListCourseSlots(ctx context.Context, courseID, term string) ([]models.CourseSlot, error) {
	var out dto.CourseSlotListResponse
	if err := c.do(ctx, http.MethodGet, slotsPath(courseID), termQuery(term), nil, &out); err != nil {
		return nil, err
	}
	return out.Slots, nil
}

// CreateCourseSlot stores one slot and returns the stored record.
func (c *AdminClient) CreateCourseSlot(ctx context.Context, courseID string, req dto.CreateCourseSlotRequest) (*models.CourseSlot, error) {
	var out dto.CourseSlotResponse
	if err := c.do(ctx, http.MethodPost, slotsPath(courseID), nil, req, &out); err != nil {
		return nil, err
	}
	return out.Slot, nil
}

// DeleteCourseSlot removes one stored slot.
func (c *AdminClient) DeleteCourseSlot(ctx context.Context, courseID, slotID, term string) error {
	return c.do(ctx, http.MethodDelete, slotsPath(courseID)+"/"+url.PathEscape(slotID), termQuery(term), nil, nil)
}

// TimeSlotCatalog fetches the id scheme served by the backend.
func (c *AdminClient) TimeSlotCatalog(ctx context.Context) (*dto.TimeSlotCatalog, error) {
	var out dto.TimeSlotCatalog
	if err := c.do(ctx, http.MethodGet, "/timeslots", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DefaultTerm picks the term for a new course: the selected filter term, else the first known one.
func DefaultTerm(selected string, terms []string) string {
	if selected != "" {
		return selected
	}
	if len(terms) > 0 {
		return terms[0]
	}
	return ""
}

func slotsPath(courseID string) string {
	return "/courses/" + url.PathEscape(courseID) + "/slots"
}

func termQuery(term string) url.Values {
	if term == "" {
		return nil
	}
	return url.Values{"term": []string{term}}
}

func (c *AdminClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var env envelope
		if len(raw) > 0 && json.Unmarshal(raw, &env) == nil && env.Error != nil {
			if env.Error.Status == 0 {
				env.Error.Status = resp.StatusCode
			}
			return env.Error
		}
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}
