package wellness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pazhealth/paz/pkg/kv"
)

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func newTestStore(t *testing.T, start time.Time) (*Store, *clock, kv.Store) {
	t.Helper()
	c := &clock{t: start}
	mem := kv.NewMemory(nil)
	t.Cleanup(func() { mem.Close() })
	return New(mem, WithPrefix("paz"), WithClock(c.now)), c, mem
}

var monday = time.Date(2026, 3, 16, 9, 30, 0, 0, time.UTC)

func TestMoodEntries(t *testing.T) {
	ctx := context.Background()
	s, c, _ := newTestStore(t, monday)

	for i, m := range []Mood{MoodOkay, MoodGood, MoodGreat} {
		c.t = monday.Add(time.Duration(i) * time.Hour)
		e, err := s.SaveMoodEntry(ctx, "u1", m, "  note  ")
		if err != nil {
			t.Fatalf("SaveMoodEntry: %v", err)
		}
		if _, err := uuid.Parse(e.ID); err != nil {
			t.Fatalf("id %q: %v", e.ID, err)
		}
		if e.Note != "note" || !e.CreatedAt.Equal(c.t) {
			t.Fatalf("entry = %+v", e)
		}
	}
	if _, err := s.SaveMoodEntry(ctx, "u2", MoodLow, ""); err != nil {
		t.Fatal(err)
	}

	got, err := s.MoodEntries(ctx, "u1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries", len(got))
	}
	if got[0].Mood != MoodGreat || got[2].Mood != MoodOkay {
		t.Fatalf("order = %v, %v, %v; want newest first", got[0].Mood, got[1].Mood, got[2].Mood)
	}

	got, err = s.MoodEntries(ctx, "u1", 2)
	if err != nil || len(got) != 2 || got[0].Mood != MoodGreat {
		t.Fatalf("limit 2 = %v, %v", got, err)
	}
}

func TestMoodEntriesDefaultLimit(t *testing.T) {
	ctx := context.Background()
	s, c, _ := newTestStore(t, monday)
	for i := range DefaultLimit + 5 {
		c.t = monday.Add(time.Duration(i) * time.Minute)
		if _, err := s.SaveMoodEntry(ctx, "u1", MoodGood, ""); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.MoodEntries(ctx, "u1", -1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != DefaultLimit {
		t.Fatalf("got %d, want %d", len(got), DefaultLimit)
	}
}

func TestSameInstantEntries(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t, monday)
	for range 3 {
		if _, err := s.SaveMoodEntry(ctx, "u1", MoodOkay, ""); err != nil {
			t.Fatal(err)
		}
	}
	got, _ := s.MoodEntries(ctx, "u1", 0)
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
}

func TestSaveMoodEntryErrors(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t, monday)
	for _, m := range []Mood{0, 6, -1} {
		if _, err := s.SaveMoodEntry(ctx, "u1", m, ""); !errors.Is(err, ErrInvalidMood) {
			t.Errorf("mood %d: err = %v", m, err)
		}
	}
	if _, err := s.SaveMoodEntry(ctx, "", MoodGood, ""); !errors.Is(err, ErrMissingUser) {
		t.Errorf("missing user: err = %v", err)
	}
}

func TestSaveMoodEntryUpdatesStreak(t *testing.T) {
	ctx := context.Background()
	s, c, _ := newTestStore(t, monday)
	for i := range 3 {
		c.t = monday.AddDate(0, 0, i)
		if _, err := s.SaveMoodEntry(ctx, "u1", MoodGood, ""); err != nil {
			t.Fatal(err)
		}
	}
	p, err := s.Profile(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if p.Streak != 3 {
		t.Fatalf("streak = %d, want 3", p.Streak)
	}
}

func TestTodayMood(t *testing.T) {
	ctx := context.Background()
	s, c, _ := newTestStore(t, monday)
	if _, ok, err := s.TodayMood(ctx, "u1"); ok || err != nil {
		t.Fatalf("TodayMood empty = %v, %v", ok, err)
	}
	if _, err := s.SaveMoodEntry(ctx, "u1", MoodLow, ""); err != nil {
		t.Fatal(err)
	}
	e, ok, err := s.TodayMood(ctx, "u1")
	if err != nil || !ok || e.Mood != MoodLow {
		t.Fatalf("TodayMood = %v, %v, %v", e, ok, err)
	}
	c.t = monday.AddDate(0, 0, 1)
	if _, ok, _ := s.TodayMood(ctx, "u1"); ok {
		t.Fatal("yesterday's mood reported as today's")
	}
}

func TestJournalEntries(t *testing.T) {
	ctx := context.Background()
	s, c, _ := newTestStore(t, monday)

	e, err := s.SaveJournalEntry(ctx, "u1", "  a quiet morning \n", []string{"tea", "  ", "sun "})
	if err != nil {
		t.Fatal(err)
	}
	if e.Content != "a quiet morning" || len(e.Gratitude) != 2 || e.Gratitude[1] != "sun" {
		t.Fatalf("entry = %+v", e)
	}
	c.t = monday.Add(time.Hour)
	if _, err := s.SaveJournalEntry(ctx, "u1", "", []string{"friends"}); err != nil {
		t.Fatalf("gratitude only: %v", err)
	}
	if _, err := s.SaveJournalEntry(ctx, "u1", "   ", []string{"", " "}); !errors.Is(err, ErrEmptyEntry) {
		t.Fatalf("blank entry: err = %v", err)
	}

	got, err := s.JournalEntries(ctx, "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Gratitude[0] != "friends" || got[1].Content != "a quiet morning" {
		t.Fatalf("entries = %+v", got)
	}
}

func TestMalformedRecordSkipped(t *testing.T) {
	ctx := context.Background()
	s, _, mem := newTestStore(t, monday)
	if _, err := s.SaveMoodEntry(ctx, "u1", MoodGood, ""); err != nil {
		t.Fatal(err)
	}
	if err := mem.Set(ctx, kv.Key{"paz", "mood", "u1", "99999999999999999999"}, []byte{0xc1}); err != nil {
		t.Fatal(err)
	}
	got, err := s.MoodEntries(ctx, "u1", 0)
	if err != nil || len(got) != 1 {
		t.Fatalf("MoodEntries = %v, %v", got, err)
	}
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t, monday)

	p, err := s.Profile(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if p != DefaultProfile() {
		t.Fatalf("default profile = %+v", p)
	}
	if !p.ShowAds() {
		t.Fatal("free tier hides ads")
	}

	p, err = s.UpdateProfile(ctx, "u1", func(p *Profile) error {
		p.Language = "es"
		p.Subscription = SubscriptionPremiumPlus
		p.SoundEnabled = false
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if p.ShowAds() {
		t.Fatal("premium_plus shows ads")
	}
	got, _ := s.Profile(ctx, "u1")
	if got != p {
		t.Fatalf("stored = %+v, want %+v", got, p)
	}

	_, err = s.UpdateProfile(ctx, "u1", func(p *Profile) error {
		p.Theme = "neon"
		return nil
	})
	if !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("bad theme: err = %v", err)
	}
	boom := errors.New("boom")
	if _, err := s.UpdateProfile(ctx, "u1", func(*Profile) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("fn error = %v", err)
	}
	got, _ = s.Profile(ctx, "u1")
	if got.Theme != "dark" || got.Language != "es" {
		t.Fatalf("profile changed by failed update: %+v", got)
	}
}

func TestMoodLabel(t *testing.T) {
	if got := MoodStruggling.Label("en"); got != "Struggling" {
		t.Errorf("1 en = %q", got)
	}
	if got := MoodGreat.Label("es"); got != "Genial" {
		t.Errorf("5 es = %q", got)
	}
	if got := Mood(9).Label("en"); got != "Mood(9)" {
		t.Errorf("9 = %q", got)
	}
	if Emoji(0) != "—" || Emoji(4.6) != "😄" || Emoji(3) != "😐" || Emoji(1.2) != "😢" {
		t.Error("Emoji thresholds")
	}
}
