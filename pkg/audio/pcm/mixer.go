package pcm

import (
	"fmt"
	"io"
	"sync"
)

// MixerOption is an option for configuring a Mixer.
type MixerOption interface {
	apply(*Mixer)
}

type onTrackRemovedOption struct {
	fn func(*TrackCtrl)
}

func (o onTrackRemovedOption) apply(mx *Mixer) {
	mx.onTrackRemoved = o.fn
}

// WithOnTrackRemoved sets a callback that is called after a track leaves the
// mix, either because its source ended or because it was removed. The
// callback runs with the mixer lock held and must not call back into the
// mixer.
func WithOnTrackRemoved(fn func(*TrackCtrl)) MixerOption {
	return onTrackRemovedOption{fn: fn}
}

// Mixer sums audio from any number of sources into a single stream in the
// output format. Sources are pulled on demand from Read, so a Mixer never
// buffers ahead of its consumer and gain changes are heard on the next read.
// With no tracks the mixer produces silence rather than EOF.
//
// Every source must produce audio in the mixer's output format.
//
// It is safe to call methods on Mixer from multiple goroutines.
type Mixer struct {
	output Format

	mu     sync.Mutex
	tracks []*TrackCtrl
	closed bool

	buf      []float32
	trackBuf []byte

	onTrackRemoved func(*TrackCtrl)
}

// NewMixer creates a new Mixer with the specified output format.
func NewMixer(output Format, opts ...MixerOption) *Mixer {
	mx := &Mixer{output: output}
	for _, opt := range opts {
		opt.apply(mx)
	}
	return mx
}

// Output returns the output format of the mixer.
func (mx *Mixer) Output() Format {
	return mx.output
}

// TrackOption is an option for configuring a track.
type TrackOption interface {
	apply(*TrackCtrl)
}

type trackLabelOption struct {
	label string
}

func (o trackLabelOption) apply(tc *TrackCtrl) {
	tc.label = o.label
}

// WithTrackLabel sets a label for the track.
func WithTrackLabel(label string) TrackOption {
	return trackLabelOption{label: label}
}

type trackGainOption struct {
	gain float32
}

func (o trackGainOption) apply(tc *TrackCtrl) {
	tc.gain.Store(o.gain)
}

// WithTrackGain sets the initial gain of the track. Defaults to 1.
func WithTrackGain(gain float32) TrackOption {
	return trackGainOption{gain: gain}
}

// Add attaches src to the mix and returns the control for the new track.
// The track stays in the mix until src returns an error (including io.EOF)
// or the track is removed.
func (mx *Mixer) Add(src io.Reader, opts ...TrackOption) (*TrackCtrl, error) {
	tc := &TrackCtrl{
		src:  src,
		gain: NewAtomicFloat32(1),
	}
	for _, opt := range opts {
		opt.apply(tc)
	}

	mx.mu.Lock()
	defer mx.mu.Unlock()
	if mx.closed {
		return nil, fmt.Errorf("pcm/mixer: add track: %w", io.ErrClosedPipe)
	}
	mx.tracks = append(mx.tracks, tc)
	return tc, nil
}

// Tracks returns the number of tracks currently in the mix.
func (mx *Mixer) Tracks() int {
	mx.mu.Lock()
	defer mx.mu.Unlock()
	n := 0
	for _, tc := range mx.tracks {
		if !tc.Removed() {
			n++
		}
	}
	return n
}

// Read fills p with mixed audio. The length of p is truncated to a whole
// number of frames. Read returns io.EOF once the mixer is closed.
func (mx *Mixer) Read(p []byte) (int, error) {
	fb := mx.output.FrameBytes()
	if len(p) < fb {
		return 0, io.ErrShortBuffer
	}
	p = p[:len(p)/fb*fb]

	mx.mu.Lock()
	defer mx.mu.Unlock()

	if mx.closed {
		return 0, io.EOF
	}

	samples := len(p) / 2
	if len(mx.buf) < samples {
		mx.buf = make([]float32, samples)
	}
	buf := mx.buf[:samples]
	clear(buf)

	if len(mx.trackBuf) < len(p) {
		mx.trackBuf = make([]byte, len(p))
	}
	trackBuf := mx.trackBuf[:len(p)]

	live := mx.tracks[:0]
	for _, tc := range mx.tracks {
		if tc.Removed() {
			mx.removedLocked(tc)
			continue
		}
		ok, err := tc.readFull(trackBuf)
		if err != nil {
			tc.removed.Store(true)
			mx.removedLocked(tc)
			continue
		}
		live = append(live, tc)
		if !ok {
			continue
		}
		gain := tc.gain.Load()
		if gain == 0 {
			continue
		}
		for i := range buf {
			s := float32(int16(uint16(trackBuf[2*i]) | uint16(trackBuf[2*i+1])<<8))
			if s >= 0 {
				s /= 32767
			} else {
				s /= 32768
			}
			buf[i] += s * gain
		}
	}
	clear(mx.tracks[len(live):])
	mx.tracks = live

	for i, t := range buf {
		t = max(-1, min(1, t))
		var v int16
		if t >= 0 {
			v = int16(t * 32767)
		} else {
			v = int16(t * 32768)
		}
		p[2*i] = byte(v)
		p[2*i+1] = byte(uint16(v) >> 8)
	}
	return len(p), nil
}

func (mx *Mixer) removedLocked(tc *TrackCtrl) {
	if mx.onTrackRemoved != nil {
		mx.onTrackRemoved(tc)
	}
}

// Close closes the mixer and removes every track. Subsequent reads return
// io.EOF and Add fails.
func (mx *Mixer) Close() error {
	mx.mu.Lock()
	defer mx.mu.Unlock()
	if mx.closed {
		return nil
	}
	mx.closed = true
	for _, tc := range mx.tracks {
		tc.removed.Store(true)
	}
	mx.tracks = nil
	return nil
}
