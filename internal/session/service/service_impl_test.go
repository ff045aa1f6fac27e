package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authdomain "github.com/welltrack/welltrack/internal/auth/domain"
	"github.com/welltrack/welltrack/internal/config"
	"github.com/welltrack/welltrack/internal/labeling"
	domain "github.com/welltrack/welltrack/internal/session/domain"
	"github.com/welltrack/welltrack/internal/session/repository"
	dbpkg "github.com/welltrack/welltrack/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *snowflake.Node, *gorm.DB) {
	t.Helper()

	db, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authdomain.User{}, &domain.Session{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		Log:     zap.NewNop(),
		GenID:   node,
		Repo:    repository.New(db),
		Labeler: labeling.New(config.DefaultSocialSites),
	})
	return svc, node, db
}

func seedUser(t *testing.T, db *gorm.DB, node *snowflake.Node, username string) snowflake.ID {
	t.Helper()
	user := &authdomain.User{ID: node.Generate(), Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user.ID
}

func int64p(v int64) *int64 { return &v }

func strp(v string) *string { return &v }

func TestReportUsage_RequiresNameAndSeconds(t *testing.T) {
	svc, node, db := newTestService(t)
	userID := seedUser(t, db, node, "alice")

	_, err := svc.ReportUsage(context.Background(), userID, domain.ReportUsageRequest{
		Seconds: int64p(60),
	})
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	_, err = svc.ReportUsage(context.Background(), userID, domain.ReportUsageRequest{
		Name: "editor",
	})
	assert.ErrorIs(t, err, domain.ErrMissingFields)
}

func TestReportUsage_AppliesDefaults(t *testing.T) {
	svc, node, db := newTestService(t)
	userID := seedUser(t, db, node, "alice")

	// No server-side classification: even a social-looking name stores
	// the literal default when the client sent no label.
	session, err := svc.ReportUsage(context.Background(), userID, domain.ReportUsageRequest{
		Name:    "youtube.com/watch",
		Seconds: int64p(90),
	})
	require.NoError(t, err)

	assert.Equal(t, "client", session.Source)
	assert.Equal(t, labeling.LabelOther, session.Label)
	assert.Equal(t, int64(90), session.Seconds)
	assert.Equal(t, userID, session.UserID)

	var stored domain.Session
	require.NoError(t, db.First(&stored, "id = ?", session.ID).Error)
	assert.Equal(t, session.Label, stored.Label)
}

func TestReportUsage_ExplicitLabelWins(t *testing.T) {
	svc, node, db := newTestService(t)
	userID := seedUser(t, db, node, "alice")

	session, err := svc.ReportUsage(context.Background(), userID, domain.ReportUsageRequest{
		Name:    "youtube.com",
		Seconds: int64p(120),
		Label:   labeling.LabelStudy,
	})
	require.NoError(t, err)
	assert.Equal(t, labeling.LabelStudy, session.Label)
}

func TestSync_StampsAuthenticatedOwner(t *testing.T) {
	svc, node, db := newTestService(t)
	alice := seedUser(t, db, node, "alice")
	bob := seedUser(t, db, node, "bob")

	inserted, err := svc.Sync(context.Background(), alice, []domain.RawRecord{
		{Name: "editor", Seconds: int64p(300)},
		{Name: "terminal", Seconds: int64p(120)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	aliceRows, err := svc.All(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, aliceRows, 2)

	bobRows, err := svc.All(context.Background(), bob)
	require.NoError(t, err)
	assert.Empty(t, bobRows)
}

func TestSync_NormalizesVariants(t *testing.T) {
	svc, node, db := newTestService(t)
	userID := seedUser(t, db, node, "alice")

	tests := []struct {
		name        string
		raw         domain.RawRecord
		wantName    string
		wantSeconds int64
		wantLabel   string
		wantSource  string
	}{
		{
			name:        "app alias and minutes",
			raw:         domain.RawRecord{App: "reddit.com/r/golang", DurationMin: int64p(2)},
			wantName:    "reddit.com/r/golang",
			wantSeconds: 120,
			wantLabel:   labeling.LabelOther,
			wantSource:  "client",
		},
		{
			name:        "site alias",
			raw:         domain.RawRecord{Site: "news.ycombinator.com", Seconds: int64p(45)},
			wantName:    "news.ycombinator.com",
			wantSeconds: 45,
			wantLabel:   labeling.LabelOther,
			wantSource:  "client",
		},
		{
			name:        "seconds beat minutes",
			raw:         domain.RawRecord{Name: "editor", Seconds: int64p(10), DurationMin: int64p(5)},
			wantName:    "editor",
			wantSeconds: 10,
			wantLabel:   labeling.LabelOther,
			wantSource:  "client",
		},
		{
			name:        "blank name becomes unknown",
			raw:         domain.RawRecord{Seconds: int64p(30)},
			wantName:    labeling.UnknownName,
			wantSeconds: 30,
			wantLabel:   labeling.LabelOther,
			wantSource:  "client",
		},
		{
			name:        "negative seconds clamp to zero",
			raw:         domain.RawRecord{Name: "editor", Seconds: int64p(-5)},
			wantName:    "editor",
			wantSeconds: 0,
			wantLabel:   labeling.LabelOther,
			wantSource:  "client",
		},
		{
			name:        "explicit fields preserved",
			raw:         domain.RawRecord{Source: "browser", Name: "docs", Seconds: int64p(60), Label: labeling.LabelStudy},
			wantName:    "docs",
			wantSeconds: 60,
			wantLabel:   labeling.LabelStudy,
			wantSource:  "browser",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, db.Delete(&domain.Session{}, "user_id = ?", userID).Error)

			inserted, err := svc.Sync(context.Background(), userID, []domain.RawRecord{tt.raw})
			require.NoError(t, err)
			require.Equal(t, 1, inserted)

			rows, err := svc.All(context.Background(), userID)
			require.NoError(t, err)
			require.Len(t, rows, 1)

			assert.Equal(t, tt.wantName, rows[0].Name)
			assert.Equal(t, tt.wantSeconds, rows[0].Seconds)
			assert.Equal(t, tt.wantLabel, rows[0].Label)
			assert.Equal(t, tt.wantSource, rows[0].Source)
		})
	}
}

func TestSync_MissingLabelStoredAsOther(t *testing.T) {
	svc, node, db := newTestService(t)
	userID := seedUser(t, db, node, "alice")

	inserted, err := svc.Sync(context.Background(), userID, []domain.RawRecord{
		{Name: "youtube.com", Seconds: int64p(60)},
	})
	require.NoError(t, err)
	require.Equal(t, 1, inserted)

	rows, err := svc.All(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, labeling.LabelOther, rows[0].Label)
}

func TestSync_ParsesClientTimestamp(t *testing.T) {
	svc, node, db := newTestService(t)
	userID := seedUser(t, db, node, "alice")

	stamp := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	_, err := svc.Sync(context.Background(), userID, []domain.RawRecord{
		{Name: "editor", Seconds: int64p(60), CreatedAt: strp(stamp.Format(time.RFC3339))},
		{Name: "editor", Seconds: int64p(60), CreatedAtDB: strp(stamp.Format(time.RFC3339))},
		{Name: "editor", Seconds: int64p(60), CreatedAt: strp("not-a-timestamp")},
	})
	require.NoError(t, err)

	rows, err := svc.All(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	var parsed, fallback int
	for _, row := range rows {
		if row.CreatedAt.Equal(stamp) {
			parsed++
		} else {
			fallback++
		}
	}
	assert.Equal(t, 2, parsed)
	// The unparseable stamp falls back to the server clock.
	assert.Equal(t, 1, fallback)
}

func TestSync_EmptyBatch(t *testing.T) {
	svc, node, db := newTestService(t)
	userID := seedUser(t, db, node, "alice")

	inserted, err := svc.Sync(context.Background(), userID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}

func TestToday_TotalsByLabel(t *testing.T) {
	svc, node, db := newTestService(t)
	userID := seedUser(t, db, node, "alice")

	_, err := svc.Sync(context.Background(), userID, []domain.RawRecord{
		{Name: "math notes", Seconds: int64p(1200), Label: labeling.LabelStudy},
		{Name: "math notes", Seconds: int64p(300), Label: labeling.LabelStudy},
		{Name: "youtube.com", Seconds: int64p(600), Label: labeling.LabelSocial},
	})
	require.NoError(t, err)

	report, err := svc.Today(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), report.Date)
	assert.Equal(t, int64(1500), report.Totals[labeling.LabelStudy])
	assert.Equal(t, int64(600), report.Totals[labeling.LabelSocial])
	assert.Equal(t, int64(2100), report.Totals["total"])

	byLabel := make(map[string]domain.LabelTotal, len(report.Rows))
	for _, row := range report.Rows {
		byLabel[row.Label] = row
	}
	assert.Equal(t, int64(2), byLabel[labeling.LabelStudy].Sessions)
	assert.Equal(t, int64(1), byLabel[labeling.LabelSocial].Sessions)
}

func TestToday_ExcludesOtherDays(t *testing.T) {
	svc, node, db := newTestService(t)
	userID := seedUser(t, db, node, "alice")

	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	_, err := svc.Sync(context.Background(), userID, []domain.RawRecord{
		{Name: "editor", Seconds: int64p(900), CreatedAt: strp(yesterday.Format(time.RFC3339))},
		{Name: "editor", Seconds: int64p(100)},
	})
	require.NoError(t, err)

	report, err := svc.Today(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), report.Totals["total"])
}

func TestAchievements_Thresholds(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.RawRecord
		wantIDs []string
	}{
		{
			name:    "below both thresholds",
			records: []domain.RawRecord{{Name: "editor", Seconds: int64p(600)}},
			wantIDs: []string{},
		},
		{
			name: "study threshold only",
			records: []domain.RawRecord{
				{Name: "math", Seconds: int64p(1800), Label: labeling.LabelStudy},
			},
			wantIDs: []string{"study_30"},
		},
		{
			name: "total threshold only",
			records: []domain.RawRecord{
				{Name: "editor", Seconds: int64p(3600)},
			},
			wantIDs: []string{"total_60"},
		},
		{
			name: "both thresholds",
			records: []domain.RawRecord{
				{Name: "math", Seconds: int64p(1800), Label: labeling.LabelStudy},
				{Name: "editor", Seconds: int64p(1800)},
			},
			wantIDs: []string{"study_30", "total_60"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, node, db := newTestService(t)
			userID := seedUser(t, db, node, "alice")

			_, err := svc.Sync(context.Background(), userID, tt.records)
			require.NoError(t, err)

			achievements, totals, err := svc.Achievements(context.Background(), userID)
			require.NoError(t, err)

			ids := make([]string, 0, len(achievements))
			for _, a := range achievements {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Contains(t, totals, "total")
		})
	}
}

func TestRecent_OrdersNewestFirst(t *testing.T) {
	svc, node, db := newTestService(t)
	userID := seedUser(t, db, node, "alice")

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		stamp := base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339)
		_, err := svc.Sync(context.Background(), userID, []domain.RawRecord{
			{Name: "editor", Seconds: int64p(60), CreatedAt: strp(stamp)},
		})
		require.NoError(t, err)
	}

	rows, err := svc.Recent(context.Background(), userID, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].CreatedAt.After(rows[1].CreatedAt))
}

func TestClear_RemovesOnlyOwnRows(t *testing.T) {
	svc, node, db := newTestService(t)
	alice := seedUser(t, db, node, "alice")
	bob := seedUser(t, db, node, "bob")

	_, err := svc.Sync(context.Background(), alice, []domain.RawRecord{{Name: "editor", Seconds: int64p(60)}})
	require.NoError(t, err)
	_, err = svc.Sync(context.Background(), bob, []domain.RawRecord{{Name: "editor", Seconds: int64p(60)}})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), alice))

	aliceRows, err := svc.All(context.Background(), alice)
	require.NoError(t, err)
	assert.Empty(t, aliceRows)

	bobRows, err := svc.All(context.Background(), bob)
	require.NoError(t, err)
	assert.Len(t, bobRows, 1)
}

func TestDelete_ForeignRowReportsZeroChanges(t *testing.T) {
	svc, node, db := newTestService(t)
	alice := seedUser(t, db, node, "alice")
	bob := seedUser(t, db, node, "bob")

	session, err := svc.ReportUsage(context.Background(), alice, domain.ReportUsageRequest{
		Name:    "editor",
		Seconds: int64p(60),
	})
	require.NoError(t, err)

	// Bob targets Alice's row; existence is not disclosed.
	changes, err := svc.Delete(context.Background(), bob, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), changes)

	changes, err = svc.Delete(context.Background(), alice, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changes)

	changes, err = svc.Delete(context.Background(), alice, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), changes)
}
