// Package resampler converts decoded PCM between the formats defined in
// package pcm. Sample rate conversion uses a pure Go polyphase resampler;
// channel conversion duplicates mono samples or averages stereo pairs.
//
//	out, err := resampler.Convert(chunk, pcm.L16Stereo48K)
package resampler
