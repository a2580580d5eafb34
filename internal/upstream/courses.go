package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"skillbridge-web/internal/domain"
)

// ListCourses fetches a page of the course catalog. page and size are passed
// through to the backend untouched; empty values mean backend defaults.
func (c *Client) ListCourses(ctx context.Context, token, page, size string) (*domain.Page[domain.Course], error) {
	path := "/courses"
	query := url.Values{}
	if page != "" {
		query.Set("page", page)
	}
	if size != "" {
		query.Set("size", size)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var result domain.Page[domain.Course]
	if err := c.doJSON(ctx, "list_courses", http.MethodGet, path, token, nil, &result,
		"Failed to fetch courses"); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateCourse creates a course owned by the calling mentor
func (c *Client) CreateCourse(ctx context.Context, token string, course domain.CourseRequest) (*domain.Course, error) {
	var created domain.Course
	if err := c.doJSON(ctx, "create_course", http.MethodPost, "/courses", token, course, &created,
		"Failed to create course"); err != nil {
		return nil, err
	}
	return &created, nil
}

// Enroll enrolls the calling user in a course
func (c *Client) Enroll(ctx context.Context, token string, courseID int64) error {
	path := fmt.Sprintf("/courses/%d/enroll", courseID)
	return c.doJSON(ctx, "enroll", http.MethodPost, path, token, nil, nil,
		"Failed to enroll in course")
}

// MyCourses lists the courses the calling user is enrolled in. Unlike the
// catalog listing this endpoint returns a bare array, not a page.
func (c *Client) MyCourses(ctx context.Context, token string) ([]domain.Course, error) {
	var courses []domain.Course
	if err := c.doJSON(ctx, "my_courses", http.MethodGet, "/user/my-courses", token, nil, &courses,
		"Failed to fetch enrolled courses"); err != nil {
		return nil, err
	}
	return courses, nil
}

// CourseByID fetches a course with its modules and assignments
func (c *Client) CourseByID(ctx context.Context, token string, courseID int64) (*domain.Course, error) {
	var course domain.Course
	path := fmt.Sprintf("/courses/%d", courseID)
	if err := c.doJSON(ctx, "course_detail", http.MethodGet, path, token, nil, &course,
		"Failed to fetch course details."); err != nil {
		return nil, err
	}
	return &course, nil
}

// AddModule uploads a video module (multipart: title, duration, video file).
// The multipart body is streamed through unmodified; contentType carries the
// caller's boundary.
func (c *Client) AddModule(ctx context.Context, token string, courseID int64, contentType string, form io.Reader) error {
	path := fmt.Sprintf("/courses/%d/modules", courseID)
	return c.doMultipart(ctx, "add_module", path, token, contentType, form,
		"Failed to upload module.")
}

// AddAssignment uploads an assignment (multipart: title, file)
func (c *Client) AddAssignment(ctx context.Context, token string, courseID int64, contentType string, form io.Reader) error {
	path := fmt.Sprintf("/courses/%d/assignments", courseID)
	return c.doMultipart(ctx, "add_assignment", path, token, contentType, form,
		"Failed to upload assignment.")
}

// SubmitAssignment uploads a student's answer file (multipart: file)
func (c *Client) SubmitAssignment(ctx context.Context, token string, assignmentID int64, contentType string, form io.Reader) error {
	path := fmt.Sprintf("/courses/assignments/%d/submit", assignmentID)
	return c.doMultipart(ctx, "submit_assignment", path, token, contentType, form,
		"Failed to submit assignment.")
}

// DeleteModule removes a module from a course
func (c *Client) DeleteModule(ctx context.Context, token string, moduleID int64) error {
	path := fmt.Sprintf("/courses/modules/%d", moduleID)
	return c.doJSON(ctx, "delete_module", http.MethodDelete, path, token, nil, nil,
		"Failed to delete module.")
}

// DeleteAssignment removes an assignment from a course
func (c *Client) DeleteAssignment(ctx context.Context, token string, assignmentID int64) error {
	path := fmt.Sprintf("/courses/assignments/%d", assignmentID)
	return c.doJSON(ctx, "delete_assignment", http.MethodDelete, path, token, nil, nil,
		"Failed to delete assignment.")
}

// ListSubmissions lists student submissions across a course's assignments
func (c *Client) ListSubmissions(ctx context.Context, token string, courseID int64) ([]domain.Submission, error) {
	var submissions []domain.Submission
	path := fmt.Sprintf("/courses/%d/submissions", courseID)
	if err := c.doJSON(ctx, "list_submissions", http.MethodGet, path, token, nil, &submissions,
		"Failed to fetch student submissions."); err != nil {
		return nil, err
	}
	return submissions, nil
}

// Grade records a grade for a submission. The backend takes the grade as a
// query parameter, not a body.
func (c *Client) Grade(ctx context.Context, token string, assignmentID int64, grade float64) error {
	path := fmt.Sprintf("/courses/assignments/%d/grade?grade=%s",
		assignmentID, strconv.FormatFloat(grade, 'f', -1, 64))
	return c.doJSON(ctx, "grade", http.MethodPost, path, token, nil, nil,
		"Failed to submit grade.")
}

// doMultipart streams a multipart form through to the backend
func (c *Client) doMultipart(ctx context.Context, operation, path, token, contentType string, form io.Reader, fallback string) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, token, form)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(operation, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: parseErrorMessage(resp.Body, fallback)}
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	return nil
}
