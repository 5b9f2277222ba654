package tone

import (
	"math"
	"sync"
	"time"
)

// Gain is a gain stage whose value can be set directly or ramped
// exponentially towards a target. Ramps are evaluated against the clock, so
// Value reports where the ramp is now.
type Gain struct {
	mu    sync.Mutex
	value float64
	ramp  *ramp
}

type ramp struct {
	from, to float64
	start    time.Time
	duration time.Duration
}

func (r *ramp) at(t time.Time) (float64, bool) {
	elapsed := t.Sub(r.start)
	if elapsed >= r.duration {
		return r.to, true
	}
	if elapsed <= 0 {
		return r.from, false
	}
	frac := float64(elapsed) / float64(r.duration)
	return r.from * math.Pow(r.to/r.from, frac), false
}

// NewGain returns a gain stage at value v.
func NewGain(v float64) *Gain {
	return &Gain{value: v}
}

// Value returns the current gain.
func (g *Gain) Value() float64 {
	return g.valueAt(time.Now())
}

func (g *Gain) valueAt(t time.Time) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ramp == nil {
		return g.value
	}
	v, _ := g.ramp.at(t)
	return v
}

// SetValue sets the gain immediately, cancelling any ramp in progress.
func (g *Gain) SetValue(v float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value = v
	g.ramp = nil
}

// ExponentialRampTo moves the gain from its current value to target over d,
// following an exponential curve. An exponential curve cannot start or end at
// zero, so if either end is not positive, or d is not positive, the value is
// set to target immediately.
func (g *Gain) ExponentialRampTo(target float64, d time.Duration) {
	now := time.Now()
	from := g.valueAt(now)

	g.mu.Lock()
	defer g.mu.Unlock()
	if from <= 0 || target <= 0 || d <= 0 {
		g.value = target
		g.ramp = nil
		return
	}
	g.ramp = &ramp{from: from, to: target, start: now, duration: d}
}

// Ramping reports whether a ramp is in progress.
func (g *Gain) Ramping() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ramp == nil {
		return false
	}
	_, done := g.ramp.at(time.Now())
	return !done
}
