package domain

import "errors"

var ErrCourseNotFound = errors.New("course not found")

// Course mirrors the backend course representation. Modules and assignments
// are only populated by the course detail endpoint.
type Course struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category,omitempty"`
	MentorName  string         `json:"mentorName,omitempty"`
	Modules     []CourseModule `json:"modules,omitempty"`
	Assignments []Assignment   `json:"assignments,omitempty"`
}

// CourseModule is a video lesson inside a course
type CourseModule struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
}

// Assignment is a gradeable task attached to a course
type Assignment struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	FileURL string `json:"fileUrl,omitempty"`
}

// Submission is a student's uploaded answer to an assignment
type Submission struct {
	ID              int64    `json:"id"`
	AssignmentID    int64    `json:"assignmentId"`
	AssignmentTitle string   `json:"assignmentTitle,omitempty"`
	StudentName     string   `json:"studentName,omitempty"`
	FileURL         string   `json:"fileUrl,omitempty"`
	Grade           *float64 `json:"grade,omitempty"`
}

// CourseRequest is the create-course payload
type CourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// Page is the backend's pagination envelope for course listings
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}
