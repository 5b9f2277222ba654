package pcm

import (
	"math"
	"sync/atomic"
)

// AtomicFloat32 provides atomic operations for float32 values.
// It uses atomic uint32 operations internally by bit-casting the float32.
type AtomicFloat32 struct {
	bits atomic.Uint32
}

// NewAtomicFloat32 creates a new AtomicFloat32 with the given initial value.
func NewAtomicFloat32(val float32) *AtomicFloat32 {
	af := &AtomicFloat32{}
	af.Store(val)
	return af
}

// Load atomically loads and returns the float32 value.
func (af *AtomicFloat32) Load() float32 {
	return math.Float32frombits(af.bits.Load())
}

// Store atomically stores the given float32 value.
func (af *AtomicFloat32) Store(val float32) {
	af.bits.Store(math.Float32bits(val))
}

// Swap atomically stores val and returns the previous value.
func (af *AtomicFloat32) Swap(val float32) float32 {
	return math.Float32frombits(af.bits.Swap(math.Float32bits(val)))
}
