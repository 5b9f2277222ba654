// Package audio is the root of the sound packages:
//
//   - pcm: formats, chunks, WAV encoding and the track mixer
//   - resampler: sample rate and channel conversion
//   - output: the audio context and its sinks (speaker, WAV file, discard)
//   - tone: sine oscillators, pure tones and binaural beats
//   - ambient: looped and one-shot samples with volume fades
//
// A program builds one output.Context and shares its mixer:
//
//	ctx := output.NewContext(pcm.L16Stereo48K, output.NewSpeaker(pcm.L16Stereo48K, 100*time.Millisecond))
//	engine, _ := tone.NewEngine(ctx)
//	engine.PlayBinauralBeat(context.Background(), 200, 9)
package audio
