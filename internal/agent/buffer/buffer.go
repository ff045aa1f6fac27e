// Package buffer is the agent's durable queue of not-yet-acknowledged
// usage records. It is the sole source of truth for what has not been
// stored server-side: it grows only by append and shrinks only through
// Clear after a confirmed acknowledgement.
package buffer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultMaxRecords bounds buffer growth when no credential is ever
// available. Eviction is oldest-first so reports keep the recent usage.
const DefaultMaxRecords = 10000

// Record is one finalized usage interval awaiting transmission.
// CreatedAt is the observation time, not the sync time.
type Record struct {
	Source    string    `json:"source"`
	Name      string    `json:"name"`
	Seconds   int64     `json:"seconds"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists records in a single JSON file, durable across agent
// restarts.
type Store struct {
	path       string
	maxRecords int
}

// NewStore opens a store at path. maxRecords <= 0 uses DefaultMaxRecords.
func NewStore(path string, maxRecords int) *Store {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &Store{path: path, maxRecords: maxRecords}
}

// Append adds rec to the end of the persisted sequence. Failures are
// returned to the caller; the record is then lost for this interval but
// the store is left unchanged.
func (s *Store) Append(rec Record) error {
	records, err := s.load()
	if err != nil {
		return err
	}

	records = append(records, rec)
	if len(records) > s.maxRecords {
		records = records[len(records)-s.maxRecords:]
	}
	return s.write(records)
}

// ReadAll returns a snapshot of the current contents without removing
// them.
func (s *Store) ReadAll() ([]Record, error) {
	return s.load()
}

// Clear empties the store. Only call after the backend has acknowledged
// the batch; clearing speculatively drops usage data on failure.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Len reports the number of buffered records.
func (s *Store) Len() (int, error) {
	records, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (s *Store) load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		// Quarantine and restart empty: a corrupt file must not wedge
		// every future append. The bad file is kept for inspection.
		if renameErr := os.Rename(s.path, s.path+".bad"); renameErr != nil {
			return nil, fmt.Errorf("corrupt buffer file %s: %w", s.path, err)
		}
		return nil, nil
	}
	return records, nil
}

// write replaces the file atomically so a crash mid-write cannot corrupt
// the buffer.
func (s *Store) write(records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
