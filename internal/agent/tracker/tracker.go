// Package tracker drives the agent's activity switch state machine:
// finalize the open interval, label and buffer it, then try a flush if a
// credential is available. The tracker holds its own state rather than a
// package-level current-activity variable so switches are testable
// without simulating the host environment.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/welltrack/welltrack/internal/agent/buffer"
	"github.com/welltrack/welltrack/internal/labeling"
	"go.uber.org/zap"
)

// recordSource marks records produced by this agent.
const recordSource = "client"

// Flusher transmits a batch to the backend. nil error means the backend
// acknowledged the whole batch.
type Flusher interface {
	Sync(ctx context.Context, token string, records []buffer.Record) error
}

// TokenSource returns the current credential, or "" when none is
// available.
type TokenSource func() string

// Clock lets tests drive interval timing.
type Clock func() time.Time

type Tracker struct {
	mu sync.Mutex

	store   *buffer.Store
	labeler *labeling.Labeler
	flusher Flusher
	token   TokenSource
	log     *zap.Logger
	now     Clock

	current string
	start   time.Time
}

func New(store *buffer.Store, labeler *labeling.Labeler, flusher Flusher, token TokenSource, log *zap.Logger) *Tracker {
	return &Tracker{
		store:   store,
		labeler: labeler,
		flusher: flusher,
		token:   token,
		log:     log,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Test hook.
func (t *Tracker) WithClock(clock Clock) *Tracker {
	t.now = clock
	return t
}

// Switch records that the observed activity changed. The previous
// interval is finalized and buffered; the new one starts at now
// regardless of whether the flush of the old one succeeds. The mutex
// keeps a slow flush from racing a rapid follow-up switch over the same
// buffer snapshot.
func (t *Tracker) Switch(ctx context.Context, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if t.current != "" {
		t.finalize(ctx, now)
	}
	t.current = name
	t.start = now
}

// Stop finalizes the open interval without starting a new one.
func (t *Tracker) Stop(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == "" {
		return
	}
	t.finalize(ctx, t.now())
	t.current = ""
}

// Flush attempts to transmit the buffered records immediately.
func (t *Tracker) Flush(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flush(ctx)
}

func (t *Tracker) finalize(ctx context.Context, now time.Time) {
	// Floor to whole seconds with a 1s minimum so rapid switching does
	// not produce zero-duration noise.
	seconds := int64(now.Sub(t.start) / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	name, label := t.labeler.Label(t.current)
	rec := buffer.Record{
		Source:    recordSource,
		Name:      name,
		Seconds:   seconds,
		Label:     label,
		CreatedAt: now.UTC(),
	}

	if err := t.store.Append(rec); err != nil {
		// Non-fatal: the interval is lost but tracking continues and
		// the buffer stays consistent.
		t.log.Warn("buffer append failed", zap.Error(err))
		return
	}

	if t.token() == "" {
		// No credential yet; the buffer holds everything for a later
		// opportunity.
		return
	}
	if err := t.flush(ctx); err != nil {
		// Transient sync failure is recovered by not clearing the
		// buffer; the next switch retries the whole, larger batch.
		t.log.Debug("flush failed, keeping buffer", zap.Error(err))
	}
}

func (t *Tracker) flush(ctx context.Context) error {
	token := t.token()
	if token == "" {
		return nil
	}

	records, err := t.store.ReadAll()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	if err := t.flusher.Sync(ctx, token, records); err != nil {
		return err
	}

	if err := t.store.Clear(); err != nil {
		return err
	}
	t.log.Info("buffer flushed", zap.Int("records", len(records)))
	return nil
}
