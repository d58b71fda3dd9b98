package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles assignable to back-office users.
const (
	RoleAdministrator = "administrator"
	RoleEditor        = "editor"
	RoleViewer        = "viewer"
)

// Account statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is a back-office account. The password hash and reset token fields are
// never serialized to JSON.
type User struct {
	ID               uuid.UUID  `json:"id" bson:"_id"`
	Name             string     `json:"name" bson:"name"`
	Email            string     `json:"email" bson:"email"`
	Password         string     `json:"-" bson:"password"`
	Role             string     `json:"role" bson:"role"`
	Status           string     `json:"status" bson:"status"`
	LastLogin        *time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	ResetToken       string     `json:"-" bson:"reset_token,omitempty"`
	ResetTokenExpiry *time.Time `json:"-" bson:"reset_token_expiry,omitempty"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" bson:"updated_at"`
}

// ValidRole reports whether role is one of the assignable roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdministrator, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// ValidStatus reports whether status is a known account status.
func ValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}

// IsActive reports whether the user may authenticate.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
