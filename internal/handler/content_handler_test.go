package handler

import (
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skillbridge-web/internal/testutil"

	"github.com/go-chi/chi/v5"
)

func TestAddModule_StreamsMultipartThrough(t *testing.T) {
	var received struct {
		contentType string
		fileContent string
	}
	backend := stubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/courses/5/modules" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		received.contentType = r.Header.Get("Content-Type")

		// The backend must be able to parse the form exactly as the
		// browser sent it: same boundary, same parts
		mediaType, params, err := mime.ParseMediaType(received.contentType)
		if err != nil || mediaType != "multipart/form-data" {
			t.Errorf("expected multipart content type, got %q", received.contentType)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		mr := multipart.NewReader(r.Body, params["boundary"])
		form, err := mr.ReadForm(1 << 20)
		if err != nil {
			t.Errorf("backend could not parse form: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if files := form.File["video"]; len(files) == 1 {
			f, _ := files[0].Open()
			content, _ := io.ReadAll(f)
			f.Close()
			received.fileContent = string(content)
		}
		w.WriteHeader(http.StatusCreated)
	})

	h := NewContentHandler(backend, &testutil.RecordingPublisher{})
	router := routeWithSession(testutil.NewTestUser(), "session-token", func(r chi.Router) {
		r.Post("/courses/{id}/modules", h.AddModule)
	})

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/courses/5/modules",
		"video", "lesson.mp4", "fake video bytes")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w, http.StatusCreated)
	testutil.AssertJSONContains(t, w, "success", true)
	testutil.AssertEqual(t, received.fileContent, "fake video bytes")
}

func TestAddModule_InvalidCourseID(t *testing.T) {
	h := NewContentHandler(stubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called")
	}), &testutil.RecordingPublisher{})
	router := routeWithSession(testutil.NewTestUser(), "session-token", func(r chi.Router) {
		r.Post("/courses/{id}/modules", h.AddModule)
	})

	req := httptest.NewRequest(http.MethodPost, "/courses/abc/modules", strings.NewReader(""))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	testutil.AssertJSONError(t, w, http.StatusBadRequest, "Invalid course id")
}

func TestAddAssignment_BackendRejectionPassthrough(t *testing.T) {
	backend := stubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"File type not allowed"}`))
	})

	h := NewContentHandler(backend, &testutil.RecordingPublisher{})
	router := routeWithSession(testutil.NewTestUser(), "session-token", func(r chi.Router) {
		r.Post("/courses/{id}/assignments", h.AddAssignment)
	})

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/courses/5/assignments",
		"file", "task.exe", "binary")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	testutil.AssertJSONError(t, w, http.StatusBadRequest, "File type not allowed")
}

func TestSubmit_PublishesEvent(t *testing.T) {
	backend := stubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/courses/assignments/11/submit" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
	})

	events := &testutil.RecordingPublisher{}
	h := NewContentHandler(backend, events)
	student := testutil.NewTestUser(testutil.WithUsername("student"))
	router := routeWithSession(student, "session-token", func(r chi.Router) {
		r.Post("/courses/assignments/{id}/submit", h.Submit)
	})

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/courses/assignments/11/submit",
		"file", "answer.pdf", "my answer")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w, http.StatusCreated)

	submitted := events.EventsOfType("assignment.submitted")
	testutil.AssertLen(t, submitted, 1)
	testutil.AssertEqual(t, submitted[0].AssignmentID, int64(11))
	testutil.AssertEqual(t, submitted[0].Username, "student")
}

func TestDeleteModule_Success(t *testing.T) {
	backend := stubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v1/courses/modules/8" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	h := NewContentHandler(backend, &testutil.RecordingPublisher{})
	router := routeWithSession(testutil.NewTestUser(), "session-token", func(r chi.Router) {
		r.Delete("/courses/modules/{id}", h.DeleteModule)
	})

	req := httptest.NewRequest(http.MethodDelete, "/courses/modules/8", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	testutil.AssertStatusCode(t, w, http.StatusOK)
	testutil.AssertJSONContains(t, w, "success", true)
}

func TestDeleteAssignment_BackendFailure(t *testing.T) {
	backend := stubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	h := NewContentHandler(backend, &testutil.RecordingPublisher{})
	router := routeWithSession(testutil.NewTestUser(), "session-token", func(r chi.Router) {
		r.Delete("/courses/assignments/{id}", h.DeleteAssignment)
	})

	req := httptest.NewRequest(http.MethodDelete, "/courses/assignments/8", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	testutil.AssertJSONError(t, w, http.StatusInternalServerError, "Failed to delete assignment.")
}
