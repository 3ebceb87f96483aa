package models

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       int64     `json:"role_id"`
	RoleName     string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user carries the admin role. Every gated
// operation calls this on its actor parameter before touching data.
func (u *User) IsAdmin() bool {
	return u != nil && u.RoleName == RoleAdmin
}
