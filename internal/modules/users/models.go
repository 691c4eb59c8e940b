package users

import "time"

// User as far as the returns subsystem cares: identity plus role. Account
// management (signup, passwords, verification) lives elsewhere.
type User struct {
	ID    string `gorm:"primaryKey;size:36" json:"id"`
	Email string `gorm:"size:255;uniqueIndex" json:"email"`
	Name  string `gorm:"size:120" json:"name"`
	Role  string `gorm:"size:20" json:"role"` // "customer" | "admin"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Session is an opaque bearer token issued by the auth subsystem; we only
// resolve it.
type Session struct {
	Token     string    `gorm:"primaryKey;size:64"`
	UserID    string    `gorm:"size:36;index"`
	ExpiresAt time.Time `gorm:"index"`

	CreatedAt time.Time
}

func (Session) TableName() string { return "sessions" }
