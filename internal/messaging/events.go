package messaging

import "context"

// Event types published on the skillbridge.events exchange. The routing key
// is the event type.
const (
	EventUserLogin        = "user.login"
	EventUserLogout       = "user.logout"
	EventCourseEnrolled   = "course.enrolled"
	EventAssignmentGraded = "assignment.graded"
	EventCourseCreated    = "course.created"
	EventAssignmentSubmit = "assignment.submitted"
)

// Event is an activity record emitted by the gateway. Only the fields
// relevant to the event type are set.
type Event struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	UserID       int64   `json:"user_id,omitempty"`
	Username     string  `json:"username,omitempty"`
	CourseID     int64   `json:"course_id,omitempty"`
	AssignmentID int64   `json:"assignment_id,omitempty"`
	Grade        float64 `json:"grade,omitempty"`
	Timestamp    int64   `json:"timestamp"`
}

// Publisher emits activity events. Publishing is fire-and-forget: failures
// are logged by implementations and never surfaced to the request path.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// NopPublisher discards all events. Wired when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) {}
