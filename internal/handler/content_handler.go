package handler

import (
	"net/http"

	"skillbridge-web/internal/messaging"
	"skillbridge-web/internal/middleware"
	"skillbridge-web/internal/upstream"
)

// maxUploadBytes caps streamed multipart bodies (video modules included)
const maxUploadBytes = 512 << 20

// ContentHandler proxies module and assignment management. Multipart bodies
// stream through to the backend without being parsed or buffered; the backend
// owns all file validation.
type ContentHandler struct {
	backend *upstream.Client
	events  messaging.Publisher
}

func NewContentHandler(backend *upstream.Client, events messaging.Publisher) *ContentHandler {
	return &ContentHandler{
		backend: backend,
		events:  events,
	}
}

// AddModule uploads a video module (multipart: title, duration, video)
func (h *ContentHandler) AddModule(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.GetToken(r.Context())

	courseID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid course id")
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := h.backend.AddModule(r.Context(), token, courseID,
		r.Header.Get("Content-Type"), body); err != nil {
		status, message := upstreamFailure(err)
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

// AddAssignment uploads an assignment (multipart: title, file)
func (h *ContentHandler) AddAssignment(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.GetToken(r.Context())

	courseID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid course id")
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := h.backend.AddAssignment(r.Context(), token, courseID,
		r.Header.Get("Content-Type"), body); err != nil {
		status, message := upstreamFailure(err)
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

// Submit uploads the calling student's answer to an assignment
func (h *ContentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.GetToken(r.Context())

	assignmentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment id")
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := h.backend.SubmitAssignment(r.Context(), token, assignmentID,
		r.Header.Get("Content-Type"), body); err != nil {
		status, message := upstreamFailure(err)
		writeError(w, status, message)
		return
	}

	if user, ok := middleware.GetUser(r.Context()); ok {
		h.events.Publish(r.Context(), messaging.Event{
			Type:         messaging.EventAssignmentSubmit,
			UserID:       user.ID,
			Username:     user.Username,
			AssignmentID: assignmentID,
		})
	}

	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

// DeleteModule removes a module
func (h *ContentHandler) DeleteModule(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.GetToken(r.Context())

	moduleID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid module id")
		return
	}

	if err := h.backend.DeleteModule(r.Context(), token, moduleID); err != nil {
		status, message := upstreamFailure(err)
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteAssignment removes an assignment
func (h *ContentHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	token, _ := middleware.GetToken(r.Context())

	assignmentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment id")
		return
	}

	if err := h.backend.DeleteAssignment(r.Context(), token, assignmentID); err != nil {
		status, message := upstreamFailure(err)
		writeError(w, status, message)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
