// Package wellness keeps a user's mood check-ins, journal entries and
// profile in a kv.Store, and derives the weekly insights shown to the user.
//
// Records are msgpack-encoded. Entry keys end in a zero-padded nanosecond
// timestamp so that listing a user's entries is chronological:
//
//	{prefix}:mood:{user}:{ts_ns}     → MoodEntry
//	{prefix}:journal:{user}:{ts_ns}  → JournalEntry
//	{prefix}:profile:{user}          → Profile
package wellness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pazhealth/paz/pkg/kv"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrInvalidMood    = errors.New("wellness: mood must be between 1 and 5")
	ErrEmptyEntry     = errors.New("wellness: journal entry is empty")
	ErrInvalidProfile = errors.New("wellness: invalid profile")
	ErrMissingUser    = errors.New("wellness: missing user id")
)

// DefaultLimit is the number of entries returned when no limit is given.
const DefaultLimit = 30

// Option configures a Store.
type Option func(*Store)

// WithPrefix places every key under prefix.
func WithPrefix(prefix ...string) Option {
	return func(s *Store) { s.prefix = kv.Key(prefix) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store is the local wellness backend.
type Store struct {
	kv     kv.Store
	prefix kv.Key
	now    func() time.Time
	logger *slog.Logger

	// writeMu serializes key allocation and profile read-modify-write.
	writeMu sync.Mutex
}

// New creates a Store over kvs.
func New(kvs kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     kvs,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const (
	kindMood    = "mood"
	kindJournal = "journal"
	kindProfile = "profile"
)

func (s *Store) userPrefix(kind, userID string) kv.Key {
	return s.prefix.Append(kind, userID)
}

func tsSegment(t time.Time) string {
	return fmt.Sprintf("%020d", t.UnixNano())
}

// putEntry stores v under the first free timestamp key at or after t and
// returns the timestamp used.
func (s *Store) putEntry(ctx context.Context, kind, userID string, t time.Time, encode func(time.Time) ([]byte, error)) (time.Time, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	prefix := s.userPrefix(kind, userID)
	for {
		key := prefix.Append(tsSegment(t))
		_, err := s.kv.Get(ctx, key)
		if errors.Is(err, kv.ErrNotFound) {
			data, err := encode(t)
			if err != nil {
				return t, err
			}
			return t, s.kv.Set(ctx, key, data)
		}
		if err != nil {
			return t, err
		}
		t = t.Add(time.Nanosecond)
	}
}

// listEntries decodes up to limit records of kind, newest first. Records
// that fail to decode are skipped.
func listEntries[T any](ctx context.Context, s *Store, kind, userID string, limit int) ([]T, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	var out []T
	for e, err := range s.kv.List(ctx, s.userPrefix(kind, userID), kv.Reverse(), kv.Limit(limit)) {
		if err != nil {
			return out, fmt.Errorf("wellness: list %s: %w", kind, err)
		}
		var v T
		if err := msgpack.Unmarshal(e.Value, &v); err != nil {
			s.logger.Warn("wellness: skip malformed record", "key", e.Key.String(), "error", err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
