package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrUnsupportedWAV is returned when a WAV stream is not 16-bit PCM in one of
// the defined formats.
var ErrUnsupportedWAV = errors.New("pcm/wav: unsupported format")

const wavHeaderSize = 44

// DecodeWAV reads a RIFF/WAVE stream holding 16-bit PCM and returns its
// audio data. Chunks other than "fmt " and "data" are skipped.
func DecodeWAV(r io.Reader) (*DataChunk, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, fmt.Errorf("pcm/wav: read header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, fmt.Errorf("pcm/wav: not a RIFF/WAVE stream")
	}

	var (
		format    Format
		haveFmt   bool
		chunkHead [8]byte
	)
	for {
		if _, err := io.ReadFull(r, chunkHead[:]); err != nil {
			return nil, fmt.Errorf("pcm/wav: missing data chunk: %w", err)
		}
		id := string(chunkHead[0:4])
		size := int64(binary.LittleEndian.Uint32(chunkHead[4:8]))

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("pcm/wav: short fmt chunk (%d bytes)", size)
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, fmt.Errorf("pcm/wav: read fmt chunk: %w", err)
			}
			audioFormat := binary.LittleEndian.Uint16(body[0:2])
			channels := int(binary.LittleEndian.Uint16(body[2:4]))
			rate := int(binary.LittleEndian.Uint32(body[4:8]))
			bits := binary.LittleEndian.Uint16(body[14:16])
			if audioFormat != 1 || bits != 16 {
				return nil, fmt.Errorf("%w: format=%d bits=%d", ErrUnsupportedWAV, audioFormat, bits)
			}
			f, ok := LookupFormat(rate, channels)
			if !ok {
				return nil, fmt.Errorf("%w: rate=%d channels=%d", ErrUnsupportedWAV, rate, channels)
			}
			format, haveFmt = f, true
		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("pcm/wav: data chunk before fmt chunk")
			}
			data := make([]byte, size)
			n, err := io.ReadFull(r, data)
			if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("pcm/wav: read data chunk: %w", err)
			}
			// Writers that never patched the header leave a short data chunk.
			data = data[:n-n%format.FrameBytes()]
			return format.DataChunk(data), nil
		default:
			if _, err := io.CopyN(io.Discard, r, size+size%2); err != nil {
				return nil, fmt.Errorf("pcm/wav: skip %q chunk: %w", id, err)
			}
		}
	}
}

// EncodeWAV writes the chunk as a complete RIFF/WAVE stream.
func EncodeWAV(w io.Writer, c Chunk) error {
	if err := writeWAVHeader(w, c.Format(), uint32(c.Len())); err != nil {
		return err
	}
	_, err := c.WriteTo(w)
	return err
}

func writeWAVHeader(w io.Writer, f Format, dataLen uint32) error {
	var h [wavHeaderSize]byte
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], 36+dataLen)
	copy(h[8:12], "WAVE")
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], 1)
	binary.LittleEndian.PutUint16(h[22:24], uint16(f.Channels()))
	binary.LittleEndian.PutUint32(h[24:28], uint32(f.SampleRate()))
	binary.LittleEndian.PutUint32(h[28:32], uint32(f.BytesRate()))
	binary.LittleEndian.PutUint16(h[32:34], uint16(f.FrameBytes()))
	binary.LittleEndian.PutUint16(h[34:36], uint16(f.Depth()))
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], dataLen)
	_, err := w.Write(h[:])
	return err
}

// WAVWriter streams PCM of a single format into a WAV container. The header
// sizes are patched on Close when the destination is an io.WriteSeeker.
type WAVWriter struct {
	w       io.Writer
	format  Format
	written int64
	header  bool
}

var _ WriteCloser = (*WAVWriter)(nil)

// NewWAVWriter returns a WAVWriter that writes audio of format f to w.
func NewWAVWriter(w io.Writer, f Format) *WAVWriter {
	return &WAVWriter{w: w, format: f}
}

// Write appends the chunk. Chunks of another format are rejected.
func (ww *WAVWriter) Write(c Chunk) error {
	if c.Format() != ww.format {
		return fmt.Errorf("pcm/wav: chunk format %v does not match %v", c.Format(), ww.format)
	}
	if !ww.header {
		if err := writeWAVHeader(ww.w, ww.format, 0); err != nil {
			return err
		}
		ww.header = true
	}
	n, err := c.WriteTo(ww.w)
	ww.written += n
	return err
}

// Close patches the header sizes if possible and closes the destination if
// it is an io.Closer.
func (ww *WAVWriter) Close() error {
	if !ww.header {
		if err := writeWAVHeader(ww.w, ww.format, 0); err != nil {
			return err
		}
		ww.header = true
	}
	if ws, ok := ww.w.(io.WriteSeeker); ok {
		if _, err := ws.Seek(0, io.SeekStart); err != nil {
			return err
		}
		if err := writeWAVHeader(ws, ww.format, uint32(ww.written)); err != nil {
			return err
		}
		if _, err := ws.Seek(0, io.SeekEnd); err != nil {
			return err
		}
	}
	if c, ok := ww.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
