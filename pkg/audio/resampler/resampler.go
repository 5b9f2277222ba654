package resampler

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/pazhealth/paz/pkg/audio/pcm"
)

// Convert returns the audio in c converted to the dst format. When c is
// already in dst it is returned as is.
func Convert(c *pcm.DataChunk, dst pcm.Format) (*pcm.DataChunk, error) {
	src := c.Format()
	if src == dst {
		return c, nil
	}

	data := c.Data[:len(c.Data)/src.FrameBytes()*src.FrameBytes()]
	switch {
	case src.Channels() == 2 && dst.Channels() == 1:
		data = stereoToMono(data)
	case src.Channels() == 1 && dst.Channels() == 2:
		data = monoToStereo(data)
	}

	if src.SampleRate() != dst.SampleRate() {
		var err error
		data, err = resample(data, src.SampleRate(), dst.SampleRate(), dst.Channels())
		if err != nil {
			return nil, err
		}
	}
	return dst.DataChunk(data), nil
}

func resample(data []byte, srcRate, dstRate, channels int) ([]byte, error) {
	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(srcRate),
		OutputRate: float64(dstRate),
		Channels:   channels,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("resampler: create: %w", err)
	}

	input := make([]float64, len(data)/2)
	for i := range input {
		sample := int16(data[i*2]) | int16(data[i*2+1])<<8
		input[i] = float64(sample) / 32768.0
	}

	output, err := rs.Process(input)
	if err != nil {
		return nil, fmt.Errorf("resampler: process: %w", err)
	}

	// Keep whole frames only.
	output = output[:len(output)/channels*channels]
	out := make([]byte, len(output)*2)
	for i, s := range output {
		sample := int16(s * 32767.0)
		if s > 1.0 {
			sample = 32767
		} else if s < -1.0 {
			sample = -32768
		}
		out[i*2] = byte(sample)
		out[i*2+1] = byte(sample >> 8)
	}
	return out, nil
}

// stereoToMono returns a mono copy of stereo 16-bit samples, averaging the L
// and R channels.
func stereoToMono(b []byte) []byte {
	frames := len(b) / 4
	out := make([]byte, frames*2)
	for i := range frames {
		j := i * 4
		l := int16(b[j]) | int16(b[j+1])<<8
		r := int16(b[j+2]) | int16(b[j+3])<<8
		m := int16((int32(l) + int32(r)) / 2)
		out[i*2] = byte(m)
		out[i*2+1] = byte(m >> 8)
	}
	return out
}

// monoToStereo returns a stereo copy of mono 16-bit samples with each sample
// on both channels.
func monoToStereo(b []byte) []byte {
	samples := len(b) / 2
	out := make([]byte, samples*4)
	for i := range samples {
		s0, s1 := b[i*2], b[i*2+1]
		j := i * 4
		out[j], out[j+1] = s0, s1
		out[j+2], out[j+3] = s0, s1
	}
	return out
}
