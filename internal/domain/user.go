package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// Role values issued by the SkillBridge backend.
const (
	RoleUser   = "USER"
	RoleMentor = "MENTOR"
	RoleAdmin  = "ADMIN"
)

// User is the resolved profile of the authenticated principal. It is always
// derived from the session token via the backend and never persisted on its own.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

// Credentials is the login request payload
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the register request payload. Registration never establishes
// a session; a successful register is followed by an explicit login.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}
