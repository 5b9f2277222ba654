// Package breathe runs guided breathing sessions.
//
// An Exercise is a fixed sequence of timed phases repeated for a number of
// cycles. A Controller walks one exercise at a time through its phases with
// a single pending timer, reporting every transition, and asks an Ambient
// collaborator to start and fade the exercise's background loop.
package breathe

import (
	"errors"
	"fmt"
	"time"
)

// Phase is one segment of a breathing cycle.
type Phase string

const (
	Inhale    Phase = "inhale"
	Hold      Phase = "hold"
	Exhale    Phase = "exhale"
	HoldEmpty Phase = "holdEmpty"
)

var phaseLabels = map[Phase]map[string]string{
	Inhale:    {"en": "Inhale", "es": "Inhala"},
	Hold:      {"en": "Hold", "es": "Sostén"},
	Exhale:    {"en": "Exhale", "es": "Exhala"},
	HoldEmpty: {"en": "Hold", "es": "Sostén"},
}

// Label returns the instruction shown for the phase in lang, falling back
// to English.
func (p Phase) Label(lang string) string {
	l, ok := phaseLabels[p]
	if !ok {
		return string(p)
	}
	if s, ok := l[lang]; ok {
		return s
	}
	return l["en"]
}

// ErrInvalidExercise is returned for exercises that cannot be run.
var ErrInvalidExercise = errors.New("breathe: invalid exercise")

// PhaseDurations holds the length of each phase. A zero HoldEmpty means the
// exercise has no hold after the exhale.
type PhaseDurations struct {
	Inhale    time.Duration `json:"inhale" yaml:"inhale"`
	Hold      time.Duration `json:"hold" yaml:"hold"`
	Exhale    time.Duration `json:"exhale" yaml:"exhale"`
	HoldEmpty time.Duration `json:"holdEmpty,omitempty" yaml:"holdEmpty,omitempty"`
}

// Of returns the duration of phase p.
func (d PhaseDurations) Of(p Phase) time.Duration {
	switch p {
	case Inhale:
		return d.Inhale
	case Hold:
		return d.Hold
	case Exhale:
		return d.Exhale
	case HoldEmpty:
		return d.HoldEmpty
	}
	return 0
}

// Order returns the phase sequence of one cycle.
func (d PhaseDurations) Order() []Phase {
	if d.HoldEmpty != 0 {
		return []Phase{Inhale, Hold, Exhale, HoldEmpty}
	}
	return []Phase{Inhale, Hold, Exhale}
}

// Exercise is a breathing pattern.
type Exercise struct {
	ID          string            `json:"id" yaml:"id"`
	Phases      PhaseDurations    `json:"phases" yaml:"phases"`
	Cycles      int               `json:"cycles" yaml:"cycles"`
	Name        map[string]string `json:"name,omitempty" yaml:"name,omitempty"`
	Description map[string]string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Order returns the phase sequence of one cycle.
func (e Exercise) Order() []Phase {
	return e.Phases.Order()
}

// CycleDuration returns the length of one cycle.
func (e Exercise) CycleDuration() time.Duration {
	var total time.Duration
	for _, p := range e.Order() {
		total += e.Phases.Of(p)
	}
	return total
}

// TotalDuration returns the length of the whole session.
func (e Exercise) TotalDuration() time.Duration {
	return e.CycleDuration() * time.Duration(e.Cycles)
}

// Label returns the exercise name in lang, falling back to English and then
// the id.
func (e Exercise) Label(lang string) string {
	if n, ok := e.Name[lang]; ok {
		return n
	}
	if n, ok := e.Name["en"]; ok {
		return n
	}
	return e.ID
}

// Validate checks that every phase in the order has a positive duration and
// that there is at least one cycle.
func (e Exercise) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidExercise)
	}
	if e.Cycles < 1 {
		return fmt.Errorf("%w: %s: cycles must be at least 1, got %d", ErrInvalidExercise, e.ID, e.Cycles)
	}
	if e.Phases.HoldEmpty < 0 {
		return fmt.Errorf("%w: %s: negative %s duration", ErrInvalidExercise, e.ID, HoldEmpty)
	}
	for _, p := range e.Order() {
		if e.Phases.Of(p) <= 0 {
			return fmt.Errorf("%w: %s: %s duration must be positive", ErrInvalidExercise, e.ID, p)
		}
	}
	return nil
}

func (e Exercise) clone() Exercise {
	c := e
	c.Name = cloneMap(e.Name)
	c.Description = cloneMap(e.Description)
	return c
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
