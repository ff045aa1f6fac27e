package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type ReportUsageRequest struct {
	Source  string `json:"source"`
	Name    string `json:"name"`
	Seconds *int64 `json:"seconds"`
	Label   string `json:"label"`
}

type Service interface {
	// ReportUsage stores a single session from the direct usage path.
	ReportUsage(ctx context.Context, userID snowflake.ID, req ReportUsageRequest) (*Session, error)

	// Sync normalizes a client batch and appends it atomically. The
	// returned count equals the batch length; on any storage failure
	// nothing is committed.
	Sync(ctx context.Context, userID snowflake.ID, records []RawRecord) (int, error)

	Recent(ctx context.Context, userID snowflake.ID, limit int) ([]Session, error)
	All(ctx context.Context, userID snowflake.ID) ([]Session, error)
	Today(ctx context.Context, userID snowflake.ID) (*TodayReport, error)
	Achievements(ctx context.Context, userID snowflake.ID) ([]Achievement, map[string]int64, error)

	Clear(ctx context.Context, userID snowflake.ID) error
	// Delete removes one owned session. Deleting a row that exists but
	// belongs to another user is a no-op reported as zero changes.
	Delete(ctx context.Context, userID snowflake.ID, id snowflake.ID) (int64, error)
}

type Repository interface {
	Insert(ctx context.Context, session *Session) error
	BulkInsert(ctx context.Context, sessions []Session) error
	Recent(ctx context.Context, userID snowflake.ID, limit int) ([]Session, error)
	All(ctx context.Context, userID snowflake.ID) ([]Session, error)
	TodayTotals(ctx context.Context, userID snowflake.ID) ([]LabelTotal, error)
	Clear(ctx context.Context, userID snowflake.ID) error
	DeleteByID(ctx context.Context, userID snowflake.ID, id snowflake.ID) (int64, error)
}

var (
	ErrMissingFields  = errors.New("name and seconds required")
	ErrNotSequence    = errors.New("sessions array required")
	ErrInvalidSession = errors.New("invalid session id")
)
