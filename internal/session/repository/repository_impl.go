package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	domain "github.com/welltrack/welltrack/internal/session/domain"
	"gorm.io/gorm"
)

type sessionRepo struct {
	db *gorm.DB
}

// New builds the gorm-backed session repository.
func New(db *gorm.DB) domain.Repository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Insert(ctx context.Context, session *domain.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// BulkInsert appends the whole batch inside one transaction so a
// mid-batch failure leaves the store unchanged.
func (r *sessionRepo) BulkInsert(ctx context.Context, sessions []domain.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&sessions).Error
	})
}

func (r *sessionRepo) Recent(ctx context.Context, userID snowflake.ID, limit int) ([]domain.Session, error) {
	var rows []domain.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *sessionRepo) All(ctx context.Context, userID snowflake.ID) ([]domain.Session, error) {
	var rows []domain.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TodayTotals groups seconds and row counts by label for rows whose
// storage-side date equals the current date. "Today" is the storage
// clock's day, not the client's; the truncation expression is dialect
// specific.
func (r *sessionRepo) TodayTotals(ctx context.Context, userID snowflake.ID) ([]domain.LabelTotal, error) {
	var rows []domain.LabelTotal
	err := r.db.WithContext(ctx).
		Model(&domain.Session{}).
		Select("label, SUM(seconds) AS seconds, COUNT(*) AS sessions").
		Where("user_id = ?", userID).
		Where(todayExpr(r.db)).
		Group("label").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *sessionRepo) Clear(ctx context.Context, userID snowflake.ID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.Session{}, "user_id = ?", userID).Error
}

func (r *sessionRepo) DeleteByID(ctx context.Context, userID snowflake.ID, id snowflake.ID) (int64, error) {
	res := r.db.WithContext(ctx).
		Delete(&domain.Session{}, "user_id = ? AND id = ?", userID, id)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func todayExpr(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "created_at::date = CURRENT_DATE"
	}
	return "date(created_at) = date('now')"
}
