package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/welltrack/welltrack/internal/labeling"
	"github.com/welltrack/welltrack/internal/observability/metrics"
	domain "github.com/welltrack/welltrack/internal/session/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultSource = "client"

	studyThresholdSeconds = 30 * 60
	totalThresholdSeconds = 60 * 60
)

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Labeler *labeling.Labeler
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	labeler *labeling.Labeler
	metrics *metrics.Metrics
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:     p.Log.Named("session.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		labeler: p.Labeler,
		metrics: p.Metrics,
	}
}

func (s *Service) ReportUsage(ctx context.Context, userID snowflake.ID, req domain.ReportUsageRequest) (*domain.Session, error) {
	if req.Name == "" || req.Seconds == nil {
		return nil, domain.ErrMissingFields
	}

	name, _ := s.labeler.Label(req.Name)
	label := req.Label
	if label == "" {
		label = labeling.LabelOther
	}
	source := req.Source
	if source == "" {
		source = defaultSource
	}

	session := &domain.Session{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Source:    source,
		Name:      name,
		Seconds:   clampSeconds(*req.Seconds),
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, session); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.UsageReports.Inc()
	}
	return session, nil
}

// Sync normalizes each raw record into canonical shape and appends the
// batch atomically. Every row is stamped with the authenticated caller's
// user id; any owner field a client might smuggle in is not even parsed.
func (s *Service) Sync(ctx context.Context, userID snowflake.ID, records []domain.RawRecord) (int, error) {
	now := time.Now().UTC()
	sessions := make([]domain.Session, 0, len(records))
	for _, raw := range records {
		sessions = append(sessions, s.normalize(userID, raw, now))
	}

	if err := s.repo.BulkInsert(ctx, sessions); err != nil {
		s.log.Error("sync batch failed", zap.Int("records", len(sessions)), zap.Error(err))
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.SyncBatches.Inc()
		s.metrics.SyncRecords.Add(float64(len(sessions)))
	}
	s.log.Info("sync batch stored", zap.Int("records", len(sessions)))
	return len(sessions), nil
}

func (s *Service) Recent(ctx context.Context, userID snowflake.ID, limit int) ([]domain.Session, error) {
	return s.repo.Recent(ctx, userID, limit)
}

func (s *Service) All(ctx context.Context, userID snowflake.ID) ([]domain.Session, error) {
	return s.repo.All(ctx, userID)
}

func (s *Service) Today(ctx context.Context, userID snowflake.ID) (*domain.TodayReport, error) {
	rows, err := s.repo.TodayTotals(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(rows)+1)
	var total int64
	for _, row := range rows {
		totals[row.Label] = row.Seconds
		total += row.Seconds
	}
	totals["total"] = total

	return &domain.TodayReport{
		Date:   time.Now().UTC().Format("2006-01-02"),
		Rows:   rows,
		Totals: totals,
	}, nil
}

// Achievements recomputes the threshold flags from the today aggregate
// on every call; nothing is persisted or deduplicated.
func (s *Service) Achievements(ctx context.Context, userID snowflake.ID) ([]domain.Achievement, map[string]int64, error) {
	report, err := s.Today(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	achievements := []domain.Achievement{}
	if report.Totals[labeling.LabelStudy] >= studyThresholdSeconds {
		achievements = append(achievements, domain.Achievement{
			ID:    "study_30",
			Title: "30m Study",
			Desc:  "Studied 30 minutes today",
		})
	}
	if report.Totals["total"] >= totalThresholdSeconds {
		achievements = append(achievements, domain.Achievement{
			ID:    "total_60",
			Title: "1h Active",
			Desc:  "Active 1 hour today",
		})
	}
	return achievements, report.Totals, nil
}

func (s *Service) Clear(ctx context.Context, userID snowflake.ID) error {
	return s.repo.Clear(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID snowflake.ID, id snowflake.ID) (int64, error) {
	return s.repo.DeleteByID(ctx, userID, id)
}

// normalize resolves the accepted payload variants once at the edge:
// name|app|site, seconds|durationMin*60, createdAt|created_at. Missing
// created_at takes the server clock; client-asserted timestamps are
// accepted verbatim. Classification happens on the client; a record
// that arrives without a label is stored as "other", never reclassified.
func (s *Service) normalize(userID snowflake.ID, raw domain.RawRecord, now time.Time) domain.Session {
	name := raw.Name
	if name == "" {
		name = raw.App
	}
	if name == "" {
		name = raw.Site
	}
	name, _ = s.labeler.Label(name)

	var seconds int64
	switch {
	case raw.Seconds != nil:
		seconds = *raw.Seconds
	case raw.DurationMin != nil:
		seconds = *raw.DurationMin * 60
	}

	label := raw.Label
	if label == "" {
		label = labeling.LabelOther
	}

	source := raw.Source
	if source == "" {
		source = defaultSource
	}

	createdAt := now
	if ts := firstNonNil(raw.CreatedAt, raw.CreatedAtDB); ts != nil {
		if parsed, err := time.Parse(time.RFC3339, *ts); err == nil {
			createdAt = parsed.UTC()
		}
	}

	return domain.Session{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Source:    source,
		Name:      name,
		Seconds:   clampSeconds(seconds),
		Label:     label,
		CreatedAt: createdAt,
	}
}

func clampSeconds(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}
