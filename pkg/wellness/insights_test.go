package wellness

import (
	"testing"
	"time"
)

func entryAt(m Mood, t time.Time) MoodEntry {
	return MoodEntry{Mood: m, CreatedAt: t}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 18, 20, 0, 0, 0, time.UTC) // Wednesday
	entries := []MoodEntry{
		entryAt(MoodGreat, now.Add(-time.Hour)),
		entryAt(MoodOkay, now.Add(-2*time.Hour)),
		entryAt(MoodGood, now.AddDate(0, 0, -1)),
		entryAt(MoodLow, now.AddDate(0, 0, -3)),
		entryAt(MoodStruggling, now.AddDate(0, 0, -10)),
	}
	s := Summarize(entries, now, "en")

	if s.Entries != 4 {
		t.Fatalf("Entries = %d, want 4", s.Entries)
	}
	// (5+3+4+2)/4 = 3.5
	if s.Average != 3.5 {
		t.Fatalf("Average = %v, want 3.5", s.Average)
	}
	if len(s.Days) != 7 {
		t.Fatalf("Days = %d", len(s.Days))
	}
	if s.Days[6].Label != "Wed" || s.Days[6].Count != 2 || s.Days[6].Average != 4 {
		t.Fatalf("today = %+v", s.Days[6])
	}
	if s.Days[5].Average != 4 || s.Days[3].Average != 2 || s.Days[4].Count != 0 {
		t.Fatalf("days = %+v", s.Days)
	}
	if s.Days[0].Label != "Thu" {
		t.Fatalf("first day = %q", s.Days[0].Label)
	}
	if s.Streak != 2 {
		t.Fatalf("Streak = %d, want 2", s.Streak)
	}
}

func TestSummarizeRounding(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	s := Summarize([]MoodEntry{
		entryAt(MoodGood, now),
		entryAt(MoodGood, now),
		entryAt(MoodOkay, now),
	}, now, "es")
	if s.Average != 3.7 {
		t.Fatalf("Average = %v, want 3.7", s.Average)
	}
	if s.Days[6].Label != "Mié" {
		t.Fatalf("label = %q", s.Days[6].Label)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, time.Now(), "en")
	if s.Average != 0 || s.Entries != 0 || s.Streak != 0 || len(s.Days) != 7 {
		t.Fatalf("empty summary = %+v", s)
	}
}

func TestStreak(t *testing.T) {
	now := time.Date(2026, 3, 18, 8, 0, 0, 0, time.UTC)
	day := func(n int) MoodEntry { return entryAt(MoodGood, now.AddDate(0, 0, -n)) }
	tests := []struct {
		name    string
		entries []MoodEntry
		want    int
	}{
		{"none", nil, 0},
		{"today only", []MoodEntry{day(0)}, 1},
		{"yesterday keeps streak", []MoodEntry{day(1), day(2)}, 2},
		{"gap", []MoodEntry{day(0), day(1), day(3)}, 2},
		{"two days ago breaks", []MoodEntry{day(2), day(3)}, 0},
		{"duplicates", []MoodEntry{day(0), day(0), day(1)}, 2},
	}
	for _, tt := range tests {
		if got := Streak(tt.entries, now); got != tt.want {
			t.Errorf("%s: Streak = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestPrompts(t *testing.T) {
	d := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	if got := PromptOfDay("en", d); got != "What's something you're looking forward to?" {
		t.Errorf("PromptOfDay(3) = %q", got)
	}
	if got := PromptOfDay("es", d.AddDate(0, 0, 7)); got != "¿Qué te hizo sonreír hoy?" {
		t.Errorf("PromptOfDay(10) = %q", got)
	}
	if PromptOfDay("de", d) != PromptOfDay("en", d) {
		t.Error("unknown language does not fall back to English")
	}

	a := Affirmation("en", d)
	if Affirmation("en", d.Add(23*time.Hour)) != a {
		t.Error("affirmation changes within a day")
	}
	if a == "" {
		t.Error("empty affirmation")
	}
}
