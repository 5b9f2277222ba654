package wellness

import (
	"math"
	"time"
)

// Week is the window covered by a Summary.
const Week = 7 * 24 * time.Hour

// Day is one column of the weekly chart.
type Day struct {
	Date    time.Time `json:"date"`
	Label   string    `json:"label"`
	Count   int       `json:"count"`
	Average float64   `json:"average"`
}

// Summary is the weekly insight view.
type Summary struct {
	// Average is the mean mood of the last seven days to one decimal, or 0.
	Average float64 `json:"average"`
	Entries int `json:"entries"`
	// Days runs from six days ago to today.
	Days   []Day `json:"days"`
	Streak int   `json:"streak"`
}

var dayNames = map[string][7]string{
	"en": {"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	"es": {"Dom", "Lun", "Mar", "Mié", "Jue", "Vie", "Sáb"},
}

// DayLabel returns the short weekday name in lang.
func DayLabel(lang string, d time.Weekday) string {
	n, ok := dayNames[lang]
	if !ok {
		n = dayNames["en"]
	}
	return n[d]
}

// Summarize computes the weekly view of entries as seen at now, in now's
// location. Labels use lang.
func Summarize(entries []MoodEntry, now time.Time, lang string) Summary {
	var s Summary
	weekAgo := now.Add(-Week)
	total := 0
	for _, e := range entries {
		if !e.CreatedAt.Before(weekAgo) && !e.CreatedAt.After(now) {
			s.Entries++
			total += int(e.Mood)
		}
	}
	if s.Entries > 0 {
		s.Average = round1(float64(total) / float64(s.Entries))
	}

	today := startOfDay(now)
	s.Days = make([]Day, 7)
	for i := range s.Days {
		date := today.AddDate(0, 0, i-6)
		d := Day{Date: date, Label: DayLabel(lang, date.Weekday())}
		sum := 0
		for _, e := range entries {
			if sameDay(e.CreatedAt.In(now.Location()), date) {
				d.Count++
				sum += int(e.Mood)
			}
		}
		if d.Count > 0 {
			d.Average = float64(sum) / float64(d.Count)
		}
		s.Days[i] = d
	}
	s.Streak = Streak(entries, now)
	return s
}

// Streak counts consecutive days with at least one check-in, ending today.
// A streak whose last check-in was yesterday is still alive.
func Streak(entries []MoodEntry, now time.Time) int {
	days := make(map[time.Time]bool, len(entries))
	for _, e := range entries {
		days[startOfDay(e.CreatedAt.In(now.Location()))] = true
	}
	day := startOfDay(now)
	if !days[day] {
		day = day.AddDate(0, 0, -1)
	}
	n := 0
	for days[day] {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
