package pcm

import (
	"context"
	"io"
	"sync/atomic"
	"time"
)

// TrackCtrl provides control over a track in the mixer: gain (volume)
// adjustment, stepped fades, and removal.
type TrackCtrl struct {
	label string
	src   io.Reader

	gain    *AtomicFloat32
	readn   atomic.Int64
	removed atomic.Bool
}

// Label returns the label of the track.
func (tc *TrackCtrl) Label() string {
	return tc.label
}

// Gain returns the current gain of the track.
func (tc *TrackCtrl) Gain() float32 {
	return tc.gain.Load()
}

// SetGain sets the gain (volume) of the track. The gain is a linear multiplier
// where 1.0 is full volume, 0.0 is silence, and values greater than 1.0 may
// cause clipping.
func (tc *TrackCtrl) SetGain(volume float32) {
	tc.gain.Store(volume)
}

// SetGainLinearTo moves the gain from its current value to the target in
// equal steps spread evenly over the duration. The first step lands one
// interval after the call and the last one lands at the end of the duration.
// It blocks until the fade completes or ctx is done, in which case the gain
// keeps the last step reached and ctx.Err() is returned.
func (tc *TrackCtrl) SetGainLinearTo(ctx context.Context, to float32, duration time.Duration, steps int) error {
	from := tc.gain.Load()
	if steps <= 0 || duration <= 0 {
		tc.gain.Store(to)
		return nil
	}

	ticker := time.NewTicker(duration / time.Duration(steps))
	defer ticker.Stop()
	for i := range steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		tc.gain.Store(from + (to-from)*float32(i+1)/float32(steps))
	}
	return nil
}

// Remove takes the track out of the mix. The mixer drops it on its next
// read. Remove is idempotent.
func (tc *TrackCtrl) Remove() {
	tc.removed.Store(true)
}

// Removed reports whether the track has left the mix.
func (tc *TrackCtrl) Removed() bool {
	return tc.removed.Load()
}

// ReadBytes returns the total number of bytes read from this track.
func (tc *TrackCtrl) ReadBytes() int64 {
	return tc.readn.Load()
}

func (tc *TrackCtrl) readFull(p []byte) (bool, error) {
	n, err := readFull(tc.src, p)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	tc.readn.Add(int64(n))
	return true, nil
}
