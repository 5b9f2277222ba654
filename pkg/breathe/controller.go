package breathe

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Default ambient fade windows.
const (
	DefaultCompletionFade = time.Second
	DefaultResetFade      = 500 * time.Millisecond
)

// Status is the lifecycle state of a Controller.
type Status int

const (
	Idle Status = iota
	Running
	Complete
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Complete:
		return "complete"
	}
	return "unknown"
}

// Snapshot is a consistent view of a Controller.
type Snapshot struct {
	Status     Status `json:"status"`
	ExerciseID string `json:"exercise,omitempty"`
	Phase      Phase  `json:"phase"`
	PhaseIndex int    `json:"phaseIndex"`
	Cycle      int    `json:"cycle"`
	Cycles     int    `json:"cycles"`
	// Remaining is the length of the current phase when it was entered.
	Remaining time.Duration `json:"remaining,omitempty"`
}

// Ambient plays the background loop that accompanies an exercise.
type Ambient interface {
	PlayLoop(ctx context.Context, id string) error
	FadeOutLoop(d time.Duration)
}

// Option configures a Controller.
type Option func(*Controller)

// WithCompletionFade sets the ambient fade used when a session completes.
func WithCompletionFade(d time.Duration) Option {
	return func(c *Controller) { c.completionFade = d }
}

// WithResetFade sets the ambient fade used by Reset.
func WithResetFade(d time.Duration) Option {
	return func(c *Controller) { c.resetFade = d }
}

// WithOnChange registers a callback invoked with a Snapshot after every
// state change. It is called without the controller lock held, from the
// goroutine that caused the change.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller runs one breathing exercise at a time.
type Controller struct {
	ambient        Ambient
	completionFade time.Duration
	resetFade      time.Duration
	onChange       func(Snapshot)
	logger         *slog.Logger

	mu         sync.Mutex
	status     Status
	exercise   Exercise
	order      []Phase
	phaseIndex int
	cycle      int
	timer      *time.Timer
	gen        uint64
}

// NewController creates an idle controller. ambient may be nil.
func NewController(ambient Ambient, opts ...Option) *Controller {
	c := &Controller{
		ambient:        ambient,
		completionFade: DefaultCompletionFade,
		resetFade:      DefaultResetFade,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins ex from its first inhale. A running session is reset first.
// An invalid exercise is rejected and the controller is left untouched.
// Failure to start the ambient loop is logged and does not affect timing.
func (c *Controller) Start(ctx context.Context, ex Exercise) error {
	if err := ex.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	wasRunning := c.status == Running
	if wasRunning {
		c.stopLocked()
	}
	c.exercise = ex.clone()
	c.order = ex.Order()
	c.status = Running
	c.phaseIndex = 0
	c.cycle = 0
	c.scheduleLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if wasRunning {
		c.fade(c.resetFade)
	}
	c.logger.Debug("breathe: start", "exercise", ex.ID, "cycles", ex.Cycles, "phases", len(c.order))
	c.notify(snap)

	if c.ambient != nil {
		if err := c.ambient.PlayLoop(ctx, ex.ID); err != nil {
			c.logger.Warn("breathe: ambient loop unavailable", "exercise", ex.ID, "error", err)
		}
	}
	return nil
}

// Reset cancels the session and returns to idle. It may be called in any
// state and always fades the ambient loop.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.stopLocked()
	c.status = Idle
	c.phaseIndex = 0
	c.cycle = 0
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.fade(c.resetFade)
	c.notify(snap)
}

// scheduleLocked arms the single timer for the current phase.
func (c *Controller) scheduleLocked() {
	gen := c.gen
	d := c.exercise.Phases.Of(c.order[c.phaseIndex])
	c.timer = time.AfterFunc(d, func() { c.advance(gen) })
}

// stopLocked cancels the pending timer and invalidates any callback that
// already fired.
func (c *Controller) stopLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) advance(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.status != Running {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.phaseIndex++
	if c.phaseIndex == len(c.order) {
		c.phaseIndex = 0
		c.cycle++
	}
	completed := c.cycle >= c.exercise.Cycles
	if completed {
		c.status = Complete
		c.gen++
	} else {
		c.scheduleLocked()
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if completed {
		c.logger.Debug("breathe: complete", "exercise", snap.ExerciseID)
		c.fade(c.completionFade)
	}
	c.notify(snap)
}

func (c *Controller) fade(d time.Duration) {
	if c.ambient != nil {
		c.ambient.FadeOutLoop(d)
	}
}

func (c *Controller) notify(s Snapshot) {
	if c.onChange != nil {
		c.onChange(s)
	}
}

// Phase returns the current phase. An idle controller reports Inhale.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phaseLocked()
}

func (c *Controller) phaseLocked() Phase {
	if len(c.order) == 0 {
		return Inhale
	}
	return c.order[c.phaseIndex]
}

// PhaseIndex returns the index of the current phase within the cycle.
func (c *Controller) PhaseIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phaseIndex
}

// Cycle returns the number of completed cycles.
func (c *Controller) Cycle() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycle
}

// Status returns the lifecycle state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Exercise returns the exercise of the current or last session.
func (c *Controller) Exercise() (Exercise, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exercise.ID == "" {
		return Exercise{}, false
	}
	return c.exercise.clone(), true
}

// Snapshot returns the full state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Status:     c.status,
		Phase:      c.phaseLocked(),
		PhaseIndex: c.phaseIndex,
		Cycle:      c.cycle,
	}
	if c.status != Idle {
		s.ExerciseID = c.exercise.ID
		s.Cycles = c.exercise.Cycles
	}
	if c.status == Running {
		s.Remaining = c.exercise.Phases.Of(s.Phase)
	}
	return s
}
