package ambient

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
	"github.com/pazhealth/paz/pkg/audio/resampler"
)

// ErrDisabled is returned by play calls while sound is disabled.
var ErrDisabled = errors.New("ambient: sound disabled")

const (
	// DefaultVolume is the initial baseline volume.
	DefaultVolume = 0.5

	// DefaultFadeSteps is the number of volume steps in FadeOutLoop.
	DefaultFadeSteps = 20
)

// Output is the audio context a Player plays through.
type Output interface {
	Resume(ctx context.Context) error
	Mixer() *pcm.Mixer
}

// Option configures a Player.
type Option func(*Player)

// WithVolume sets the initial baseline volume.
func WithVolume(v float64) Option {
	return func(p *Player) {
		p.volume = clamp01(v)
	}
}

// WithFadeSteps sets the number of steps FadeOutLoop uses.
func WithFadeSteps(n int) Option {
	return func(p *Player) {
		p.fadeSteps = max(1, n)
	}
}

// WithAliases maps ids passed to PlayLoop, such as exercise ids, to sound
// ids. Defaults to ExerciseSounds.
func WithAliases(m map[string]string) Option {
	return func(p *Player) {
		p.aliases = m
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) {
		p.logger = l
	}
}

// Player plays looped and one-shot samples through the output mixer. It is
// safe for concurrent use.
type Player struct {
	out       Output
	lib       Library
	logger    *slog.Logger
	fadeSteps int
	aliases   map[string]string

	mu      sync.Mutex
	volume  float64
	enabled bool
	loop    *voice
}

type voice struct {
	id     string
	reader *sampleReader
	track  *pcm.TrackCtrl

	// Non-nil while a fade is running.
	fadeCtx    context.Context
	cancelFade context.CancelFunc
}

// NewPlayer returns an enabled Player.
func NewPlayer(out Output, lib Library, opts ...Option) *Player {
	p := &Player{
		out:       out,
		lib:       lib,
		logger:    slog.Default(),
		fadeSteps: DefaultFadeSteps,
		aliases:   ExerciseSounds,
		volume:    DefaultVolume,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Player) resolve(id string) string {
	if s, ok := p.aliases[id]; ok {
		return s
	}
	return id
}

func (p *Player) sample(ctx context.Context, id string) (*pcm.DataChunk, error) {
	s, err := p.lib.Sample(ctx, id)
	if err != nil {
		return nil, err
	}
	return resampler.Convert(s, p.out.Mixer().Output())
}

// PlayLoop stops the current loop and starts the sound for id looping at the
// current volume. id may be a sound id or an alias.
//
// If the audio context cannot be resumed the loop is still current and the
// returned error wraps output.ErrSuspended.
func (p *Player) PlayLoop(ctx context.Context, id string) error {
	if !p.Enabled() {
		return ErrDisabled
	}
	sound := p.resolve(id)
	s, err := p.sample(ctx, sound)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.stopLoopLocked()
	r := newSampleReader(s.Data, true)
	track, err := p.out.Mixer().Add(r,
		pcm.WithTrackLabel("loop:"+sound),
		pcm.WithTrackGain(float32(p.volume)),
	)
	if err != nil {
		p.mu.Unlock()
		return fmt.Errorf("ambient: play loop %s: %w", sound, err)
	}
	p.loop = &voice{id: sound, reader: r, track: track}
	p.mu.Unlock()

	p.logger.Debug("ambient: loop", "sound", sound)
	return p.resume(ctx)
}

// Play plays the sound for id once, alongside any loop.
func (p *Player) Play(ctx context.Context, id string) error {
	if !p.Enabled() {
		return ErrDisabled
	}
	s, err := p.sample(ctx, id)
	if err != nil {
		return err
	}
	p.mu.Lock()
	vol := p.volume
	p.mu.Unlock()
	if _, err := p.out.Mixer().Add(newSampleReader(s.Data, false),
		pcm.WithTrackLabel("oneshot:"+id),
		pcm.WithTrackGain(float32(vol)),
	); err != nil {
		return fmt.Errorf("ambient: play %s: %w", id, err)
	}
	return p.resume(ctx)
}

func (p *Player) resume(ctx context.Context) error {
	err := p.out.Resume(ctx)
	if err == nil {
		return nil
	}
	p.logger.Warn("ambient: playback prevented", "error", err)
	if errors.Is(err, output.ErrSuspended) {
		return fmt.Errorf("ambient: %w", err)
	}
	return fmt.Errorf("ambient: %w: %w", output.ErrSuspended, err)
}

// FadeOutLoop lowers the current loop's volume linearly to zero in
// fade-step increments spread over d, then stops and rewinds it and restores
// the baseline volume. It returns immediately. A later loop started during
// the fade is not affected. A new fade replaces one in progress, starting
// from the volume reached so far.
func (p *Player) FadeOutLoop(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := p.loop
	if v == nil {
		return
	}
	if v.cancelFade != nil {
		v.cancelFade()
	}
	ctx, cancel := context.WithCancel(context.Background())
	v.fadeCtx, v.cancelFade = ctx, cancel

	steps := p.fadeSteps
	go func() {
		defer cancel()
		if err := v.track.SetGainLinearTo(ctx, 0, d, steps); err != nil {
			return
		}
		p.finishFade(ctx, v)
	}()
}

func (p *Player) finishFade(ctx context.Context, v *voice) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ctx.Err() != nil || v.fadeCtx != ctx {
		return
	}
	p.haltLocked(v)
	if p.loop == v {
		p.loop = nil
	}
	p.logger.Debug("ambient: loop faded out", "sound", v.id)
}

// haltLocked pauses, rewinds and un-loops v and restores its volume.
func (p *Player) haltLocked(v *voice) {
	if v.cancelFade != nil {
		v.cancelFade()
		v.fadeCtx, v.cancelFade = nil, nil
	}
	v.track.Remove()
	v.reader.Rewind()
	v.reader.SetLoop(false)
	v.track.SetGain(float32(p.volume))
}

func (p *Player) stopLoopLocked() {
	if p.loop == nil {
		return
	}
	p.haltLocked(p.loop)
	p.loop = nil
}

// StopLoop stops the current loop at once.
func (p *Player) StopLoop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLoopLocked()
}

// Current returns the sound id of the current loop, or "" if none.
func (p *Player) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loop == nil {
		return ""
	}
	return p.loop.id
}

// Fading reports whether the current loop is fading out.
func (p *Player) Fading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loop != nil && p.loop.cancelFade != nil
}

// LoopGain returns the current loop's gain, or 0 if there is no loop.
func (p *Player) LoopGain() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loop == nil {
		return 0
	}
	return float64(p.loop.track.Gain())
}

// SetVolume clamps v to [0, 1] and makes it the baseline volume. The current
// loop follows unless it is fading. NaN is ignored.
func (p *Player) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clamp01(v)
	if p.loop != nil && p.loop.cancelFade == nil {
		p.loop.track.SetGain(float32(p.volume))
	}
}

// Volume returns the baseline volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetEnabled turns sound on or off. Disabling stops the current loop.
func (p *Player) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
	if !enabled {
		p.stopLoopLocked()
	}
}

// Enabled reports whether sound is enabled.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// sampleReader reads a decoded sample, optionally looping.
type sampleReader struct {
	mu   sync.Mutex
	data []byte
	pos  int
	loop bool
}

func newSampleReader(data []byte, loop bool) *sampleReader {
	return &sampleReader{data: data, loop: loop}
}

func (r *sampleReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for n < len(p) {
		if r.pos >= len(r.data) {
			if !r.loop || len(r.data) == 0 {
				break
			}
			r.pos = 0
		}
		c := copy(p[n:], r.data[r.pos:])
		r.pos += c
		n += c
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Rewind moves the read position back to the start.
func (r *sampleReader) Rewind() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pos = 0
}

// SetLoop sets whether the sample restarts from the beginning at its end.
func (r *sampleReader) SetLoop(loop bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loop = loop
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
