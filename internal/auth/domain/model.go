// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User represents a registered account. A user owns its usage sessions;
// removing the user cascades to them.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Username     string       `gorm:"type:text;not null;uniqueIndex" json:"username"`
	PasswordHash string       `gorm:"type:text;not null" json:"-"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// Identity is the resolved caller attached to authenticated requests.
// A valid credential acts as a full capability for this user; there are
// no scopes or roles.
type Identity struct {
	UserID   snowflake.ID
	Username string
}
