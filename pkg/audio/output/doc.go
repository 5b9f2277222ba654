// Package output owns the audio output context: a single pcm.Mixer and the
// sink that drains it.
//
// A Context starts suspended. Resume starts the sink pulling audio from the
// mixer; Suspend stops it without discarding tracks; Close releases the sink
// and the mixer for good.
//
// Three sinks are provided:
//
//   - Speaker plays through the default output device.
//   - WAVFile records to a WAV file in real time.
//   - Discard consumes audio in real time and drops it.
package output
