package pcm

import (
	"encoding/binary"
	"errors"
	"io"
	"time"
)

// Writer is a writer for chunks of audio data.
type Writer interface {
	Write(Chunk) error
}

var _ Writer = WriteFunc(nil)

// WriteFunc is a function that implements the Writer interface.
type WriteFunc func(Chunk) error

// Write implements the Writer interface.
func (f WriteFunc) Write(c Chunk) error {
	return f(c)
}

// WriteCloser is a writer for chunks of audio data that also implements io.Closer.
type WriteCloser interface {
	Writer
	io.Closer
}

// Discard is a Writer that discards all written chunks.
var Discard Writer = discard{}

type discard struct{}

func (discard) Write(Chunk) error {
	return nil
}

// Int16ToBytes converts samples to raw little-endian PCM bytes.
func Int16ToBytes(samples []int16) []byte {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}
	return data
}

// BytesToInt16 converts raw little-endian PCM bytes to samples. A trailing
// odd byte is ignored.
func BytesToInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples
}

// readFull reads from r until p is full, r returns no data, or an error
// occurs. A short read is padded with zeros. It returns io.EOF only when
// nothing was read.
func readFull(r io.Reader, p []byte) (int, error) {
	var (
		readBytes int
		readErr   error
	)
	for readBytes < len(p) {
		n, err := r.Read(p[readBytes:])
		readBytes += n
		if err != nil {
			readErr = err
			break
		}
		if n == 0 {
			break
		}
	}
	if readErr != nil && !errors.Is(readErr, io.EOF) {
		return 0, readErr
	}
	if readBytes == 0 {
		return 0, readErr
	}
	clear(p[readBytes:])
	return len(p), nil
}

// Copy reads r in blocks of at least 20ms and writes them to w as chunks of
// format until r is exhausted.
func Copy(w Writer, r io.Reader, format Format) error {
	block := int(format.BytesInDuration(20 * time.Millisecond))
	buf := make([]byte, 5*block)
	for {
		n, err := io.ReadAtLeast(r, buf, block)
		if n > 0 {
			if werr := w.Write(format.DataChunk(buf[:n])); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return err
		}
	}
}
