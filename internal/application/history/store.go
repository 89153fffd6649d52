// Package history keeps the time- and count-bounded log of executed snippets.
//
// The whole log lives under one key of a key-value store as a JSON array of
// {code, action, time} objects (time in epoch milliseconds), newest first.
// Eviction is lazy: every Record and every List drops entries whose age is at
// least the max age, keeps the first max-entries survivors and writes the
// result back.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/ports"
)

// Store implements ports.HistoryStore on top of a key-value store.
type Store struct {
	kv         ports.KeyValueStore
	key        string
	maxEntries int
	maxAge     time.Duration
	now        func() time.Time
	logger     ports.Logger

	// serialises read-modify-write cycles on the single key
	mu sync.Mutex
}

// Option customises a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLimits overrides the capacity and the maximum entry age.
func WithLimits(maxEntries int, maxAge time.Duration) Option {
	return func(s *Store) {
		if maxEntries > 0 {
			s.maxEntries = maxEntries
		}
		if maxAge > 0 {
			s.maxAge = maxAge
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger attaches a logger for self-healing notices.
func WithLogger(logger ports.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a history store backed by kv.
func New(kv ports.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:         kv,
		key:        domain.DefaultHistoryKey,
		maxEntries: domain.DefaultHistoryMaxEntries,
		maxAge:     domain.DefaultHistoryMaxAge,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record prepends an entry stamped with the current instant, evicts and persists.
func (s *Store) Record(ctx context.Context, code string, action domain.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return err
	}
	now := s.now()
	entries = s.evict(entries, now)
	entry := domain.HistoryEntry{Code: code, Action: action, Time: now.Truncate(time.Millisecond)}
	entries = append([]domain.HistoryEntry{entry}, entries...)
	entries = s.evict(entries, now)
	return s.save(ctx, entries)
}

// List returns the surviving entries newest first, persisting the evicted log.
func (s *Store) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	entries = s.evict(entries, s.now())
	if err := s.save(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// evict applies the age predicate then the capacity predicate.
func (s *Store) evict(entries []domain.HistoryEntry, now time.Time) []domain.HistoryEntry {
	kept := make([]domain.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Age(now) >= s.maxAge {
			continue
		}
		kept = append(kept, entry)
	}
	if len(kept) > s.maxEntries {
		kept = kept[:s.maxEntries]
	}
	return kept
}

type storedEntry struct {
	Code   string        `json:"code"`
	Action domain.Action `json:"action"`
	Time   int64         `json:"time"`
}

func (s *Store) load(ctx context.Context) ([]domain.HistoryEntry, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var stored []storedEntry
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.warn("discarding malformed history", map[string]interface{}{"key": s.key, "error": err.Error()})
		return nil, nil
	}
	entries := make([]domain.HistoryEntry, 0, len(stored))
	for _, item := range stored {
		// entries without a timestamp can never pass the age check
		if item.Time <= 0 {
			continue
		}
		entries = append(entries, domain.HistoryEntry{
			Code:   item.Code,
			Action: item.Action,
			Time:   time.UnixMilli(item.Time),
		})
	}
	return entries, nil
}

func (s *Store) save(ctx context.Context, entries []domain.HistoryEntry) error {
	stored := make([]storedEntry, 0, len(entries))
	for _, entry := range entries {
		stored = append(stored, storedEntry{
			Code:   entry.Code,
			Action: entry.Action,
			Time:   entry.Time.UnixMilli(),
		})
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

func (s *Store) warn(msg string, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, fields)
	}
}

var _ ports.HistoryStore = (*Store)(nil)
