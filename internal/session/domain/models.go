// Package domain contains persistence models and contracts for usage
// sessions, the append-only records of time spent on one activity.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/welltrack/welltrack/internal/auth/domain"
)

// Session is one durable, immutable record of time spent on one named
// activity, owned by exactly one user. Rows are never updated after
// insert; they disappear only through the owner's clear or delete.
type Session struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;index:idx_sessions_user_created" json:"-"`
	Source    string       `gorm:"type:text" json:"source"`
	Name      string       `gorm:"type:text" json:"name"`
	Seconds   int64        `gorm:"not null" json:"seconds"`
	Label     string       `gorm:"type:text" json:"label"`
	CreatedAt time.Time    `gorm:"not null;index:idx_sessions_user_created;default:CURRENT_TIMESTAMP" json:"created_at"`

	User authdomain.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }

// RawRecord is the sync payload shape as clients actually send it. Older
// agents used app/site and durationMin; the aliases are resolved once in
// normalization so everything past the edge sees canonical sessions.
type RawRecord struct {
	Source      string  `json:"source"`
	Name        string  `json:"name"`
	App         string  `json:"app"`
	Site        string  `json:"site"`
	Seconds     *int64  `json:"seconds"`
	DurationMin *int64  `json:"durationMin"`
	Label       string  `json:"label"`
	CreatedAt   *string `json:"createdAt"`
	CreatedAtDB *string `json:"created_at"`
}

// LabelTotal is one row of the today aggregate.
type LabelTotal struct {
	Label    string `json:"label"`
	Seconds  int64  `json:"seconds"`
	Sessions int64  `json:"sessions"`
}

// TodayReport is the per-label aggregate for the storage-side current date.
type TodayReport struct {
	Date   string           `json:"date"`
	Rows   []LabelTotal     `json:"rows"`
	Totals map[string]int64 `json:"totals"`
}

// Achievement is a stateless threshold over the today totals; recomputed
// on every request, never persisted.
type Achievement struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}
