package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/pazhealth/paz/pkg/audio/pcm"
)

var (
	// ErrSuspended is returned when the context could not be resumed.
	ErrSuspended = errors.New("output: context suspended")

	// ErrClosed is returned by operations on a closed context.
	ErrClosed = errors.New("output: context closed")
)

// State is the lifecycle state of a Context.
type State int

const (
	Suspended State = iota
	Running
	Closed
)

func (s State) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case Running:
		return "running"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Sink drains audio from a reader. Start begins pulling from src and returns
// once playback has started. Stop halts pulling; a stopped sink may be
// started again.
type Sink interface {
	Start(ctx context.Context, src io.Reader) error
	Stop() error
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		c.logger = l
	}
}

// Context is the process-wide audio output. It is safe for concurrent use.
type Context struct {
	mixer  *pcm.Mixer
	sink   Sink
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// NewContext returns a suspended Context that mixes audio in format and
// plays it through sink.
func NewContext(format pcm.Format, sink Sink, opts ...Option) *Context {
	c := &Context{
		mixer:  pcm.NewMixer(format),
		sink:   sink,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mixer returns the mixer every producer adds its tracks to.
func (c *Context) Mixer() *pcm.Mixer {
	return c.mixer
}

// Format returns the output format.
func (c *Context) Format() pcm.Format {
	return c.mixer.Output()
}

// State returns the current state.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Resume starts the sink if the context is suspended. On failure the context
// stays suspended and the returned error wraps ErrSuspended.
func (c *Context) Resume(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Running:
		return nil
	case Closed:
		return ErrClosed
	}
	if err := c.sink.Start(ctx, c.mixer); err != nil {
		c.logger.Warn("output: resume failed", "error", err)
		return fmt.Errorf("%w: %w", ErrSuspended, err)
	}
	c.state = Running
	c.logger.Debug("output: running", "format", c.mixer.Output())
	return nil
}

// Suspend stops the sink. Tracks stay in the mixer and continue where they
// left off on the next Resume.
func (c *Context) Suspend() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Suspended:
		return nil
	case Closed:
		return ErrClosed
	}
	c.state = Suspended
	return c.sink.Stop()
}

// Close stops the sink, closes it if it is an io.Closer, and closes the
// mixer. Close is idempotent.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Closed {
		return nil
	}
	var errs []error
	if c.state == Running {
		errs = append(errs, c.sink.Stop())
	}
	c.state = Closed
	if cl, ok := c.sink.(io.Closer); ok {
		errs = append(errs, cl.Close())
	}
	errs = append(errs, c.mixer.Close())
	return errors.Join(errs...)
}
