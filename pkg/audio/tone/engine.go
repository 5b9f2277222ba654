package tone

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/pazhealth/paz/pkg/audio/output"
	"github.com/pazhealth/paz/pkg/audio/pcm"
)

const (
	// DefaultVolume is the initial baseline volume.
	DefaultVolume = 0.3

	// DefaultStopFade is the length of the fade-out performed by Stop.
	DefaultStopFade = 500 * time.Millisecond

	// DefaultRampFloor is the gain the stop fade ramps down to.
	DefaultRampFloor = 0.001
)

// Output is the audio context an Engine plays through.
type Output interface {
	Resume(ctx context.Context) error
	Mixer() *pcm.Mixer
}

// Option configures an Engine.
type Option func(*Engine)

// WithVolume sets the initial baseline volume. Defaults to DefaultVolume.
func WithVolume(v float64) Option {
	return func(e *Engine) {
		e.baseline = clamp01(v)
	}
}

// WithStopFade sets the fade-out window of Stop. Defaults to
// DefaultStopFade.
func WithStopFade(d time.Duration) Option {
	return func(e *Engine) {
		e.stopFade = d
	}
}

// WithRampFloor sets the gain the stop fade ramps down to. Defaults to
// DefaultRampFloor.
func WithRampFloor(v float64) Option {
	return func(e *Engine) {
		e.rampFloor = v
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// OscillatorInfo describes an oscillator of the current session.
type OscillatorInfo struct {
	Frequency float64 `json:"frequency" yaml:"frequency"`
	Pan       float64 `json:"pan" yaml:"pan"`
	Panned    bool    `json:"panned" yaml:"panned"`
}

// Engine plays one tone session at a time. It is an io.Reader rendering the
// session as PCM in the output format, and it is attached to the output
// mixer on construction.
//
// It is safe to call methods on Engine from multiple goroutines.
type Engine struct {
	out    Output
	format pcm.Format
	track  *pcm.TrackCtrl
	logger *slog.Logger

	stopFade  time.Duration
	rampFloor float64

	gain *Gain

	mu          sync.Mutex
	baseline    float64
	oscillators []*Oscillator
	playing     bool
	teardown    *time.Timer
	generation  uint64
}

// NewEngine creates an engine and adds it as a track to the output mixer.
func NewEngine(out Output, opts ...Option) (*Engine, error) {
	e := &Engine{
		out:       out,
		format:    out.Mixer().Output(),
		logger:    slog.Default(),
		stopFade:  DefaultStopFade,
		rampFloor: DefaultRampFloor,
		baseline:  DefaultVolume,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.gain = NewGain(e.baseline)

	track, err := out.Mixer().Add(e, pcm.WithTrackLabel("tone"))
	if err != nil {
		return nil, fmt.Errorf("tone: attach to mixer: %w", err)
	}
	e.track = track
	return e, nil
}

// PlayFrequency plays a pure sine tone at hz. If hz is not a finite positive
// number the call does nothing and returns nil.
//
// Any current session is torn down before the new one starts. If the audio
// context cannot be resumed the session is still established and the
// returned error wraps output.ErrSuspended.
func (e *Engine) PlayFrequency(ctx context.Context, hz float64) error {
	if !validHz(hz) {
		return nil
	}
	e.start(newOscillator(hz))
	e.logger.Debug("tone: play", "hz", hz)
	return e.resume(ctx)
}

// PlayBinauralBeat plays baseHz on the left channel and baseHz+beatHz on the
// right. If either argument is not a finite positive number the call does
// nothing and returns nil.
func (e *Engine) PlayBinauralBeat(ctx context.Context, baseHz, beatHz float64) error {
	if !validHz(baseHz) || !validHz(beatHz) {
		return nil
	}
	e.start(
		newPannedOscillator(baseHz, -1),
		newPannedOscillator(baseHz+beatHz, 1),
	)
	e.logger.Debug("tone: play binaural", "base_hz", baseHz, "beat_hz", beatHz)
	return e.resume(ctx)
}

// PlayPreset plays a catalog preset.
func (e *Engine) PlayPreset(ctx context.Context, p Preset) error {
	if p.Kind == Binaural {
		return e.PlayBinauralBeat(ctx, p.BaseHz, p.Hz)
	}
	return e.PlayFrequency(ctx, p.Hz)
}

func (e *Engine) start(oscs ...*Oscillator) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.generation++
	if e.teardown != nil {
		e.teardown.Stop()
		e.teardown = nil
	}
	e.teardownLocked()
	e.gain.SetValue(e.baseline)
	e.oscillators = oscs
	e.playing = true
}

func (e *Engine) resume(ctx context.Context) error {
	err := e.out.Resume(ctx)
	if err == nil {
		return nil
	}
	e.logger.Warn("tone: audio context not running", "error", err)
	if errors.Is(err, output.ErrSuspended) {
		return fmt.Errorf("tone: %w", err)
	}
	return fmt.Errorf("tone: %w: %w", output.ErrSuspended, err)
}

// Stop fades the session out and tears it down once the fade window has
// elapsed. IsPlaying reports false immediately. Stop does nothing when no
// session is playing.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.playing {
		return
	}
	e.playing = false
	e.gain.ExponentialRampTo(e.rampFloor, e.stopFade)

	gen := e.generation
	e.teardown = time.AfterFunc(e.stopFade, func() {
		e.finishStop(gen)
	})
}

func (e *Engine) finishStop(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		return
	}
	e.teardown = nil
	e.teardownLocked()
	e.gain.SetValue(e.baseline)
	e.logger.Debug("tone: stopped")
}

// teardownLocked stops and disconnects every oscillator of the session.
func (e *Engine) teardownLocked() {
	for _, o := range e.oscillators {
		if err := o.Stop(); err != nil && !errors.Is(err, ErrOscillatorStopped) {
			e.logger.Warn("tone: stop oscillator", "hz", o.Frequency(), "error", err)
		}
		o.Disconnect()
	}
	e.oscillators = nil
}

// SetVolume clamps v to [0, 1] and makes it the baseline volume. The gain
// changes immediately unless a stop fade is in progress, in which case the
// new baseline is applied when the fade completes. NaN is ignored.
func (e *Engine) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.baseline = clamp01(v)
	if e.teardown == nil {
		e.gain.SetValue(e.baseline)
	}
}

// Volume returns the baseline volume.
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.baseline
}

// Gain returns the shared gain stage.
func (e *Engine) Gain() *Gain {
	return e.gain
}

// IsPlaying reports whether a session is playing. It is false while a stop
// fade is in progress.
func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Oscillators describes the oscillators of the current session, including a
// session that is fading out.
func (e *Engine) Oscillators() []OscillatorInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	infos := make([]OscillatorInfo, 0, len(e.oscillators))
	for _, o := range e.oscillators {
		pan, panned := o.Pan()
		infos = append(infos, OscillatorInfo{Frequency: o.Frequency(), Pan: pan, Panned: panned})
	}
	return infos
}

// Read renders the current session into p. It never returns io.EOF while
// the engine is open.
func (e *Engine) Read(p []byte) (int, error) {
	fb := e.format.FrameBytes()
	frames := len(p) / fb
	if frames == 0 {
		return 0, io.ErrShortBuffer
	}
	p = p[:frames*fb]

	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	g0 := e.gain.valueAt(now)
	g1 := e.gain.valueAt(now.Add(e.format.Duration(int64(len(p)))))

	rate := float64(e.format.SampleRate())
	stereo := e.format.Channels() == 2
	for i := range frames {
		var l, r float64
		for _, o := range e.oscillators {
			if !o.audible() {
				continue
			}
			s := o.next(rate)
			gl, gr := o.channelGains()
			l += s * gl
			r += s * gr
		}
		g := g0 + (g1-g0)*float64(i)/float64(frames)
		off := i * fb
		if stereo {
			putSample(p[off:], l*g)
			putSample(p[off+2:], r*g)
		} else {
			putSample(p[off:], (l+r)/2*g)
		}
	}
	return len(p), nil
}

// Close tears down any session and detaches the engine from the mixer.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.generation++
	if e.teardown != nil {
		e.teardown.Stop()
		e.teardown = nil
	}
	e.teardownLocked()
	e.playing = false
	e.track.Remove()
	return nil
}

func putSample(b []byte, v float64) {
	v = max(-1, min(1, v))
	s := int16(v * 32767)
	b[0] = byte(s)
	b[1] = byte(uint16(s) >> 8)
}

func validHz(hz float64) bool {
	return hz > 0 && !math.IsInf(hz, 0) && !math.IsNaN(hz)
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
