package wellness

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Mood is a check-in score from 1 (struggling) to 5 (great).
type Mood int

const (
	MoodStruggling Mood = iota + 1
	MoodLow
	MoodOkay
	MoodGood
	MoodGreat
)

var moodLabels = map[string][5]string{
	"en": {"Struggling", "Low", "Okay", "Good", "Great"},
	"es": {"Difícil", "Bajo", "Regular", "Bien", "Genial"},
}

// Valid reports whether m is in 1..5.
func (m Mood) Valid() bool {
	return m >= MoodStruggling && m <= MoodGreat
}

// Label returns the name of m in lang.
func (m Mood) Label(lang string) string {
	if !m.Valid() {
		return fmt.Sprintf("Mood(%d)", int(m))
	}
	l, ok := moodLabels[lang]
	if !ok {
		l = moodLabels["en"]
	}
	return l[m-1]
}

// Emoji returns the face for an average score, or "—" when there is none.
func Emoji(avg float64) string {
	switch {
	case avg <= 0:
		return "—"
	case avg >= 4.5:
		return "😄"
	case avg >= 3.5:
		return "🙂"
	case avg >= 2.5:
		return "😐"
	case avg >= 1.5:
		return "😔"
	}
	return "😢"
}

// MoodEntry is one check-in.
type MoodEntry struct {
	ID        string    `json:"id" msgpack:"id"`
	UserID    string    `json:"user_id" msgpack:"user_id"`
	Mood      Mood      `json:"mood" msgpack:"mood"`
	Note      string    `json:"note,omitempty" msgpack:"note,omitempty"`
	CreatedAt time.Time `json:"created_at" msgpack:"created_at"`
}

// SaveMoodEntry records a check-in and refreshes the user's streak.
func (s *Store) SaveMoodEntry(ctx context.Context, userID string, mood Mood, note string) (*MoodEntry, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	if !mood.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMood, mood)
	}
	entry := &MoodEntry{
		ID:     uuid.NewString(),
		UserID: userID,
		Mood:   mood,
		Note:   strings.TrimSpace(note),
	}
	_, err := s.putEntry(ctx, kindMood, userID, s.now(), func(t time.Time) ([]byte, error) {
		entry.CreatedAt = t
		return msgpack.Marshal(entry)
	})
	if err != nil {
		return nil, fmt.Errorf("wellness: save mood: %w", err)
	}
	s.logger.Debug("wellness: mood saved", "user", userID, "mood", int(mood))

	if err := s.refreshStreak(ctx, userID); err != nil {
		s.logger.Warn("wellness: streak not updated", "user", userID, "error", err)
	}
	return entry, nil
}

// MoodEntries returns up to limit check-ins, newest first. A non-positive
// limit means DefaultLimit.
func (s *Store) MoodEntries(ctx context.Context, userID string, limit int) ([]MoodEntry, error) {
	return listEntries[MoodEntry](ctx, s, kindMood, userID, limit)
}

// TodayMood returns the latest check-in made on the current day.
func (s *Store) TodayMood(ctx context.Context, userID string) (*MoodEntry, bool, error) {
	entries, err := s.MoodEntries(ctx, userID, 1)
	if err != nil || len(entries) == 0 {
		return nil, false, err
	}
	now := s.now()
	if !sameDay(entries[0].CreatedAt.In(now.Location()), now) {
		return nil, false, nil
	}
	return &entries[0], true, nil
}

// streakWindow bounds how far back the stored streak is recomputed.
const streakWindow = 400

func (s *Store) refreshStreak(ctx context.Context, userID string) error {
	entries, err := s.MoodEntries(ctx, userID, streakWindow)
	if err != nil {
		return err
	}
	streak := Streak(entries, s.now())
	_, err = s.UpdateProfile(ctx, userID, func(p *Profile) error {
		p.Streak = streak
		return nil
	})
	return err
}
