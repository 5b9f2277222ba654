package tone

import (
	"errors"
	"math"
	"sync/atomic"
)

// ErrOscillatorStopped is returned by Stop on an oscillator that has already
// stopped.
var ErrOscillatorStopped = errors.New("tone: oscillator already stopped")

// Oscillator is a sine wave source with an optional stereo pan.
type Oscillator struct {
	freq   float64
	pan    float64
	panned bool

	// Rendering state, owned by the engine lock.
	phase float64

	stopped      atomic.Bool
	disconnected atomic.Bool
}

func newOscillator(freq float64) *Oscillator {
	return &Oscillator{freq: freq}
}

func newPannedOscillator(freq, pan float64) *Oscillator {
	return &Oscillator{freq: freq, pan: max(-1, min(1, pan)), panned: true}
}

// Frequency returns the frequency in Hz.
func (o *Oscillator) Frequency() float64 {
	return o.freq
}

// Pan returns the stereo position from -1 (left) to +1 (right), and false
// if the oscillator is not panned.
func (o *Oscillator) Pan() (float64, bool) {
	return o.pan, o.panned
}

// Stop silences the oscillator for good.
func (o *Oscillator) Stop() error {
	if o.stopped.Swap(true) {
		return ErrOscillatorStopped
	}
	return nil
}

// Stopped reports whether the oscillator has been stopped.
func (o *Oscillator) Stopped() bool {
	return o.stopped.Load()
}

// Disconnect detaches the oscillator from the gain stage. It is idempotent.
func (o *Oscillator) Disconnect() {
	o.disconnected.Store(true)
}

func (o *Oscillator) audible() bool {
	return !o.stopped.Load() && !o.disconnected.Load()
}

// channelGains returns the left and right gains. Unpanned oscillators are
// copied to both channels; panned ones use an equal-power law.
func (o *Oscillator) channelGains() (float64, float64) {
	if !o.panned {
		return 1, 1
	}
	x := (o.pan + 1) / 2 * math.Pi / 2
	return math.Cos(x), math.Sin(x)
}

// next returns the current sample and advances the phase by one frame.
func (o *Oscillator) next(sampleRate float64) float64 {
	s := math.Sin(o.phase)
	o.phase += 2 * math.Pi * o.freq / sampleRate
	if o.phase >= 2*math.Pi {
		o.phase -= 2 * math.Pi
	}
	return s
}
