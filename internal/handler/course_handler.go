package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"skillbridge-web/internal/domain"
	"skillbridge-web/internal/messaging"
	"skillbridge-web/internal/middleware"
	"skillbridge-web/internal/upstream"

	"github.com/go-chi/chi/v5"
)

// CourseHandler proxies the course catalog operations. Every call runs behind
// SessionAuth, so the session token is always on the context.
type CourseHandler struct {
	backend *upstream.Client
	events  messaging.Publisher
}

func NewCourseHandler(backend *upstream.Client, events messaging.Publisher) *CourseHandler {
	return &CourseHandler{
		backend: backend,
		events:  events,
	}
}

// List returns a catalog page; page and size query params pass through
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.GetToken(r.Context())

	page, err := h.backend.ListCourses(r.Context(), token,
		r.URL.Query().Get("page"), r.URL.Query().Get("size"))
	if err != nil {
		status, message := upstreamFailure(err)
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Create creates a course owned by the calling mentor
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.GetToken(r.Context())

	var req domain.CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	course, err := h.backend.CreateCourse(r.Context(), token, req)
	if err != nil {
		status, message := upstreamFailure(err)
		writeError(w, status, message)
		return
	}

	if user, ok := middleware.GetUser(r.Context()); ok {
		h.events.Publish(r.Context(), messaging.Event{
			Type:     messaging.EventCourseCreated,
			UserID:   user.ID,
			Username: user.Username,
			CourseID: course.ID,
		})
	}

	writeJSON(w, http.StatusCreated, course)
}

// Enroll enrolls the calling user in a course
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.GetToken(r.Context())

	courseID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid course id")
		return
	}

	if err := h.backend.Enroll(r.Context(), token, courseID); err != nil {
		status, message := upstreamFailure(err)
		writeError(w, status, message)
		return
	}

	if user, ok := middleware.GetUser(r.Context()); ok {
		h.events.Publish(r.Context(), messaging.Event{
			Type:     messaging.EventCourseEnrolled,
			UserID:   user.ID,
			Username: user.Username,
			CourseID: courseID,
		})
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully enrolled!"})
}

// MyCourses lists the calling user's enrolled courses
func (h *CourseHandler) MyCourses(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.GetToken(r.Context())

	courses, err := h.backend.MyCourses(r.Context(), token)
	if err != nil {
		status, message := upstreamFailure(err)
		writeError(w, status, message)
		return
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	writeJSON(w, http.StatusOK, courses)
}

// Detail returns a course with its modules and assignments
func (h *CourseHandler) Detail(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.GetToken(r.Context())

	courseID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid course id")
		return
	}

	course, err := h.backend.CourseByID(r.Context(), token, courseID)
	if err != nil {
		status, message := upstreamFailure(err)
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// pathID parses a numeric chi path parameter
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
