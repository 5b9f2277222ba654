package wellness

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// JournalEntry is a free-form entry with optional gratitude items.
type JournalEntry struct {
	ID        string    `json:"id" msgpack:"id"`
	UserID    string    `json:"user_id" msgpack:"user_id"`
	Content   string    `json:"content" msgpack:"content"`
	Gratitude []string  `json:"gratitude,omitempty" msgpack:"gratitude,omitempty"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
}

// SaveJournalEntry trims content and drops blank gratitude items. It
// returns ErrEmptyEntry when nothing remains.
func (s *Store) SaveJournalEntry(ctx context.Context, userID, content string, gratitude []string) (*JournalEntry, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	entry := &JournalEntry{
		ID:      uuid.NewString(),
		UserID:  userID,
		Content: strings.TrimSpace(content),
	}
	for _, g := range gratitude {
		if g = strings.TrimSpace(g); g != "" {
			entry.Gratitude = append(entry.Gratitude, g)
		}
	}
	if entry.Content == "" && len(entry.Gratitude) == 0 {
		return nil, ErrEmptyEntry
	}
	_, err := s.putEntry(ctx, kindJournal, userID, s.now(), func(t time.Time) ([]byte, error) {
		entry.CreatedAt = t
		return msgpack.Marshal(entry)
	})
	if err != nil {
		return nil, fmt.Errorf("wellness: save journal: %w", err)
	}
	s.logger.Debug("wellness: journal saved", "user", userID, "gratitude", len(entry.Gratitude))
	return entry, nil
}

// JournalEntries returns up to limit entries, newest first.
func (s *Store) JournalEntries(ctx context.Context, userID string, limit int) ([]JournalEntry, error) {
	return listEntries[JournalEntry](ctx, s, kindJournal, userID, limit)
}
