package handler

import (
	"net/http"
	"strconv"

	"skillbridge-web/internal/domain"
	"skillbridge-web/internal/messaging"
	"skillbridge-web/internal/middleware"
	"skillbridge-web/internal/upstream"
)

// GradingHandler proxies submission review for mentors. Its routes are
// mentor-only; RequireRole runs ahead of these handlers.
type GradingHandler struct {
	backend *upstream.Client
	events  messaging.Publisher
}

func NewGradingHandler(backend *upstream.Client, events messaging.Publisher) *GradingHandler {
	return &GradingHandler{
		backend: backend,
		events:  events,
	}
}

// Submissions lists student submissions across a course's assignments
func (h *GradingHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.GetToken(r.Context())

	courseID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid course id")
		return
	}

	submissions, err := h.backend.ListSubmissions(r.Context(), token, courseID)
	if err != nil {
		status, message := upstreamFailure(err)
		writeError(w, status, message)
		return
	}
	if submissions == nil {
		submissions = []domain.Submission{}
	}
	writeJSON(w, http.StatusOK, submissions)
}

// Grade records a grade for a submission. The grade rides on the query
// string, matching the backend contract.
func (h *GradingHandler) Grade(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.GetToken(r.Context())

	assignmentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment id")
		return
	}

	grade, err := strconv.ParseFloat(r.URL.Query().Get("grade"), 64)
	if err != nil || grade < 0 {
		writeError(w, http.StatusBadRequest, "Invalid grade")
		return
	}

	if err := h.backend.Grade(r.Context(), token, assignmentID, grade); err != nil {
		status, message := upstreamFailure(err)
		writeError(w, status, message)
		return
	}

	if user, ok := middleware.GetUser(r.Context()); ok {
		h.events.Publish(r.Context(), messaging.Event{
			Type:         messaging.EventAssignmentGraded,
			UserID:       user.ID,
			Username:     user.Username,
			AssignmentID: assignmentID,
			Grade:        grade,
		})
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
