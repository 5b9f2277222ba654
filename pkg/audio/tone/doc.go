// Package tone generates pure sine tones and binaural beats.
//
// An Engine owns at most one tone session: one oscillator for a pure tone or
// a left/right pair for a binaural beat. All oscillators feed a shared Gain
// stage, and the engine renders the result as a track in the output mixer.
// Starting a new tone tears down the previous session at once; Stop fades
// the gain out exponentially before tearing the session down, so shutdown
// does not click.
//
// Headphones are required to hear a binaural beat. The engine does not
// check for them.
package tone
