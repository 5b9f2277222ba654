package pcm

import (
	"io"
	"time"
)

const (
	// L16Mono16K represents audio/L16; rate=16000; channels=1
	L16Mono16K Format = iota + 1
	// L16Mono24K represents audio/L16; rate=24000; channels=1
	L16Mono24K
	// L16Mono48K represents audio/L16; rate=48000; channels=1
	L16Mono48K
	// L16Stereo44K1 represents audio/L16; rate=44100; channels=2
	L16Stereo44K1
	// L16Stereo48K represents audio/L16; rate=48000; channels=2
	L16Stereo48K
)

// Chunk is a chunk of audio data.
type Chunk interface {
	Len() int64
	Format() Format
	WriteTo(w io.Writer) (int64, error)
}

// Format represents an audio format configuration. The zero value is not a
// valid format.
type Format int

// LookupFormat returns the format with the given sample rate and channel
// count, and false if none is defined.
func LookupFormat(sampleRate, channels int) (Format, bool) {
	for _, f := range []Format{L16Mono16K, L16Mono24K, L16Mono48K, L16Stereo44K1, L16Stereo48K} {
		if f.SampleRate() == sampleRate && f.Channels() == channels {
			return f, true
		}
	}
	return 0, false
}

// SampleRate returns the sample rate in Hz for this format.
func (f Format) SampleRate() int {
	switch f {
	case L16Mono16K:
		return 16000
	case L16Mono24K:
		return 24000
	case L16Mono48K, L16Stereo48K:
		return 48000
	case L16Stereo44K1:
		return 44100
	}
	panic("pcm: invalid audio type")
}

// Channels returns the number of audio channels for this format.
func (f Format) Channels() int {
	switch f {
	case L16Mono16K, L16Mono24K, L16Mono48K:
		return 1
	case L16Stereo44K1, L16Stereo48K:
		return 2
	}
	panic("pcm: invalid audio type")
}

// Depth returns the bit depth for this format.
func (f Format) Depth() int {
	switch f {
	case L16Mono16K, L16Mono24K, L16Mono48K, L16Stereo44K1, L16Stereo48K:
		return 16
	}
	panic("pcm: invalid audio type")
}

// FrameBytes returns the size in bytes of one sample across all channels.
func (f Format) FrameBytes() int {
	return f.Channels() * f.Depth() / 8
}

// Frames returns the number of frames in the given number of bytes.
func (f Format) Frames(bytes int64) int64 {
	return bytes / int64(f.FrameBytes())
}

// FramesInDuration returns the number of frames in the given duration.
func (f Format) FramesInDuration(d time.Duration) int64 {
	return int64(time.Duration(f.SampleRate()) * d / time.Second)
}

// BytesInDuration returns the number of bytes in the given duration.
func (f Format) BytesInDuration(d time.Duration) int64 {
	return f.FramesInDuration(d) * int64(f.FrameBytes())
}

// Duration returns the duration of the given number of bytes.
func (f Format) Duration(bytes int64) time.Duration {
	return time.Duration(f.Frames(bytes)) * time.Second / time.Duration(f.SampleRate())
}

// BytesRate returns the byte rate of the audio data.
func (f Format) BytesRate() int {
	return f.SampleRate() * f.FrameBytes()
}

// SilenceChunk returns a silence chunk of the given duration.
func (f Format) SilenceChunk(duration time.Duration) Chunk {
	return &SilenceChunk{
		Duration: duration,
		len:      f.BytesInDuration(duration),
		fmt:      f,
	}
}

// DataChunk returns a chunk of audio data.
func (f Format) DataChunk(data []byte) *DataChunk {
	return &DataChunk{
		Data: data,
		fmt:  f,
	}
}

// String returns a human-readable string representation of the format.
func (f Format) String() string {
	switch f {
	case L16Mono16K:
		return "audio/L16; rate=16000; channels=1"
	case L16Mono24K:
		return "audio/L16; rate=24000; channels=1"
	case L16Mono48K:
		return "audio/L16; rate=48000; channels=1"
	case L16Stereo44K1:
		return "audio/L16; rate=44100; channels=2"
	case L16Stereo48K:
		return "audio/L16; rate=48000; channels=2"
	}
	return "audio/invalid"
}

// DataChunk is a chunk of audio data.
type DataChunk struct {
	Data []byte
	fmt  Format
}

// Len returns the length of the audio data in bytes.
func (c *DataChunk) Len() int64 {
	return int64(len(c.Data))
}

// Format returns the audio format of this chunk.
func (c *DataChunk) Format() Format {
	return c.fmt
}

// Duration returns the playing time of the chunk.
func (c *DataChunk) Duration() time.Duration {
	return c.fmt.Duration(c.Len())
}

// WriteTo writes the audio data to the writer.
func (c *DataChunk) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.Data)
	return int64(n), err
}

// SilenceChunk is a chunk of silence.
type SilenceChunk struct {
	Duration time.Duration
	len      int64
	fmt      Format
}

// Len returns the length of the silence in bytes.
func (c *SilenceChunk) Len() int64 {
	return c.len
}

// Format returns the audio format of this chunk.
func (c *SilenceChunk) Format() Format {
	return c.fmt
}

var emptyBytes [32000]byte

// WriteTo writes silence (zero bytes) to the writer.
func (c *SilenceChunk) WriteTo(w io.Writer) (int64, error) {
	remaining := c.len
	var written int64
	for remaining > 0 {
		silence := emptyBytes[:min(remaining, int64(len(emptyBytes)))]
		n, err := w.Write(silence)
		written += int64(n)
		if err != nil {
			return written, err
		}
		remaining -= int64(n)
	}
	return written, nil
}
