// Package pcm provides types and utilities for working with PCM (Pulse Code
// Modulation) audio data.
//
// The package defines the formats the audio graph renders in (16-bit mono
// for voice-like samples, 16-bit stereo for tones and ambient loops), chunk
// types for moving audio around, a small WAV codec, and a pull-based Mixer
// that sums any number of sources through per-track gain controls.
//
// Key types:
//   - Format: audio format (sample rate, channels, bit depth)
//   - Chunk: interface for audio data chunks
//   - DataChunk, SilenceChunk: concrete chunks
//   - Mixer, TrackCtrl: mixing with per-track gain and stepped fades
//
// Example usage:
//
//	mx := pcm.NewMixer(pcm.L16Stereo48K)
//	ctrl := mx.Add(src, pcm.WithTrackLabel("rain"))
//	ctrl.SetGain(0.5)
//
//	// 20ms of mixed audio
//	buf := make([]byte, mx.Output().BytesInDuration(20*time.Millisecond))
//	mx.Read(buf)
package pcm
