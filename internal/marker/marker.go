// Package marker stores and advances the per-domain last-write timestamps
// that clients compare against their cached copies.
package marker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tripframe/tripframe-server/internal/domain"
	"github.com/tripframe/tripframe-server/internal/objectstore"
)

// TimeFormat is the marker timestamp layout: UTC with millisecond precision.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// DefaultKey returns the marker object key for an environment.
func DefaultKey(env string) string {
	return env + "/db-updated-time.json"
}

// Store reads and writes the marker record as one JSON object.
type Store struct {
	objects objectstore.Store
	key     string
}

// NewStore creates a marker store at key.
func NewStore(objects objectstore.Store, key string) *Store {
	return &Store{objects: objects, key: key}
}

// Key returns the object key holding the record.
func (s *Store) Key() string {
	return s.key
}

// Read returns the current record. A record that was never written reads
// as empty, which every reader treats as stale.
func (s *Store) Read(ctx context.Context) (domain.Marker, error) {
	data, err := s.objects.Get(ctx, s.key)
	if errors.Is(err, objectstore.ErrNotFound) {
		return domain.Marker{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read marker: %w", err)
	}

	m := domain.Marker{}
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode marker: %w", err)
	}
	return m, nil
}

// Write replaces the whole record.
func (s *Store) Write(ctx context.Context, m domain.Marker) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode marker: %w", err)
	}
	if err := s.objects.Put(ctx, s.key, data, "application/json"); err != nil {
		return fmt.Errorf("write marker: %w", err)
	}
	return nil
}

// Publisher advances a domain's timestamp after a durable write.
type Publisher struct {
	store  *Store
	now    func() time.Time
	logger *slog.Logger
}

// NewPublisher creates a publisher. A nil clock uses time.Now.
func NewPublisher(store *Store, now func() time.Time, logger *slog.Logger) *Publisher {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{store: store, now: now, logger: logger}
}

// Publish advances d's timestamp to now and returns it. The stored value
// always moves forward: when the clock has not passed the previous value,
// at millisecond precision, the previous value plus one millisecond is used.
//
// This is a read-modify-write of the whole record with no lock. Two
// publishers for different domains can race and one field update can be
// lost; that only delays invalidation of the other domain until its next
// write, it never marks stale data fresh. Call it exactly once per
// successful mutation, after the write is durable.
func (p *Publisher) Publish(ctx context.Context, d domain.DataDomain) (string, error) {
	m, err := p.store.Read(ctx)
	if err != nil {
		return "", err
	}

	ts := next(m[d], p.now())
	m[d] = ts

	if err := p.store.Write(ctx, m); err != nil {
		return "", err
	}
	p.logger.Debug("marker published", "domain", string(d), "updated_time", ts)
	return ts, nil
}

// next returns the timestamp following prev for a write at now.
func next(prev string, now time.Time) string {
	at := now.UTC().Truncate(time.Millisecond)
	if last, err := time.Parse(TimeFormat, prev); err == nil && !at.After(last) {
		at = last.Add(time.Millisecond)
	}
	return at.Format(TimeFormat)
}
