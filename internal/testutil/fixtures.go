package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"skillbridge-web/internal/domain"
)

// Counter for generating unique IDs
var idCounter atomic.Int64

// nextID generates a unique numeric ID for test fixtures
func nextID() int64 {
	return idCounter.Add(1)
}

// UserOptions allows customizing user fixture creation
type UserOptions struct {
	ID       int64
	Username string
	Email    string
	Role     string
}

// NewTestUser creates a test user with sensible defaults
// Pass options to override specific fields
func NewTestUser(opts ...func(*UserOptions)) *domain.User {
	o := &UserOptions{
		ID:       nextID(),
		Username: fmt.Sprintf("testuser%d", idCounter.Load()),
		Role:     domain.RoleUser,
	}

	for _, opt := range opts {
		opt(o)
	}

	// Set email based on username if not provided
	if o.Email == "" {
		o.Email = o.Username + "@example.com"
	}

	return &domain.User{
		ID:       o.ID,
		Username: o.Username,
		Email:    o.Email,
		Role:     o.Role,
	}
}

// User option functions

// WithUserID sets the user ID
func WithUserID(id int64) func(*UserOptions) {
	return func(o *UserOptions) {
		o.ID = id
	}
}

// WithUsername sets the username
func WithUsername(username string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.Username = username
	}
}

// WithEmail sets the email
func WithEmail(email string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.Email = email
	}
}

// WithRole sets the user role
func WithRole(role string) func(*UserOptions) {
	return func(o *UserOptions) {
		o.Role = role
	}
}

// TokenOptions allows customizing token record fixture creation
type TokenOptions struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewTestToken creates a token record with sensible defaults
func NewTestToken(opts ...func(*TokenOptions)) *domain.TokenRecord {
	now := time.Now()
	o := &TokenOptions{
		Token:     fmt.Sprintf("token-%d", nextID()),
		IssuedAt:  now,
		ExpiresAt: now.Add(domain.TokenLifetime),
	}

	for _, opt := range opts {
		opt(o)
	}

	return &domain.TokenRecord{
		Token:     o.Token,
		IssuedAt:  o.IssuedAt,
		ExpiresAt: o.ExpiresAt,
	}
}

// Token option functions

// WithToken sets the token value
func WithToken(token string) func(*TokenOptions) {
	return func(o *TokenOptions) {
		o.Token = token
	}
}

// WithExpiresAt sets the token expiration time
func WithExpiresAt(t time.Time) func(*TokenOptions) {
	return func(o *TokenOptions) {
		o.ExpiresAt = t
	}
}

// WithExpired creates an already-expired token record
func WithExpired() func(*TokenOptions) {
	return func(o *TokenOptions) {
		o.IssuedAt = time.Now().Add(-25 * time.Hour)
		o.ExpiresAt = time.Now().Add(-1 * time.Hour)
	}
}

// CourseOptions allows customizing course fixture creation
type CourseOptions struct {
	ID          int64
	Title       string
	Description string
	Category    string
	MentorName  string
}

// NewTestCourse creates a test course with sensible defaults
func NewTestCourse(opts ...func(*CourseOptions)) *domain.Course {
	o := &CourseOptions{
		ID:          nextID(),
		Title:       fmt.Sprintf("Test Course %d", idCounter.Load()),
		Description: "A course used in tests",
		Category:    "PROGRAMMING",
		MentorName:  "mentor",
	}

	for _, opt := range opts {
		opt(o)
	}

	return &domain.Course{
		ID:          o.ID,
		Title:       o.Title,
		Description: o.Description,
		Category:    o.Category,
		MentorName:  o.MentorName,
	}
}

// Course option functions

// WithCourseID sets the course ID
func WithCourseID(id int64) func(*CourseOptions) {
	return func(o *CourseOptions) {
		o.ID = id
	}
}

// WithCourseTitle sets the course title
func WithCourseTitle(title string) func(*CourseOptions) {
	return func(o *CourseOptions) {
		o.Title = title
	}
}

// WithMentorName sets the mentor attribution
func WithMentorName(name string) func(*CourseOptions) {
	return func(o *CourseOptions) {
		o.MentorName = name
	}
}

// Batch creation helpers

// NewTestCourses creates multiple test courses
func NewTestCourses(count int) []*domain.Course {
	courses := make([]*domain.Course, count)
	for i := 0; i < count; i++ {
		courses[i] = NewTestCourse()
	}
	return courses
}

// NewCoursePage wraps courses in the backend's pagination envelope
func NewCoursePage(courses []domain.Course, page, size int, total int64) *domain.Page[domain.Course] {
	totalPages := int(total) / size
	if int(total)%size != 0 {
		totalPages++
	}
	return &domain.Page[domain.Course]{
		Content:       courses,
		Number:        page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          page >= totalPages-1,
	}
}

// ResetIDCounter resets the ID counter (useful for deterministic tests)
func ResetIDCounter() {
	idCounter.Store(0)
}
