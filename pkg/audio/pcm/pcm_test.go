package pcm

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFormatProperties(t *testing.T) {
	tests := []struct {
		format     Format
		rate       int
		channels   int
		frameBytes int
	}{
		{L16Mono16K, 16000, 1, 2},
		{L16Mono24K, 24000, 1, 2},
		{L16Mono48K, 48000, 1, 2},
		{L16Stereo44K1, 44100, 2, 4},
		{L16Stereo48K, 48000, 2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.SampleRate(); got != tt.rate {
				t.Errorf("SampleRate() = %d, want %d", got, tt.rate)
			}
			if got := tt.format.Channels(); got != tt.channels {
				t.Errorf("Channels() = %d, want %d", got, tt.channels)
			}
			if got := tt.format.FrameBytes(); got != tt.frameBytes {
				t.Errorf("FrameBytes() = %d, want %d", got, tt.frameBytes)
			}
			f, ok := LookupFormat(tt.rate, tt.channels)
			if !ok || f != tt.format {
				t.Errorf("LookupFormat(%d, %d) = %v, %v", tt.rate, tt.channels, f, ok)
			}
		})
	}
}

func TestFormatDurations(t *testing.T) {
	f := L16Stereo48K
	if got := f.BytesInDuration(time.Second); got != 192000 {
		t.Errorf("BytesInDuration(1s) = %d, want 192000", got)
	}
	if got := f.Duration(192000); got != time.Second {
		t.Errorf("Duration(192000) = %v, want 1s", got)
	}
	if got := f.FramesInDuration(500 * time.Millisecond); got != 24000 {
		t.Errorf("FramesInDuration(500ms) = %d, want 24000", got)
	}
	if got := Format(0).String(); got != "audio/invalid" {
		t.Errorf("invalid String() = %q", got)
	}
	if _, ok := LookupFormat(8000, 1); ok {
		t.Error("LookupFormat(8000, 1) succeeded")
	}
}

func TestSilenceChunk(t *testing.T) {
	c := L16Mono16K.SilenceChunk(3 * time.Second)
	var buf bytes.Buffer
	n, err := c.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 96000 || buf.Len() != 96000 {
		t.Fatalf("wrote %d bytes (buffer %d), want 96000", n, buf.Len())
	}
	if !bytes.Equal(buf.Bytes(), make([]byte, 96000)) {
		t.Fatal("silence is not zero")
	}
}

func TestWAVRoundTrip(t *testing.T) {
	data := generateSineWave(440, 16000, 50)
	var buf bytes.Buffer
	if err := EncodeWAV(&buf, L16Mono16K.DataChunk(data)); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != wavHeaderSize+len(data) {
		t.Fatalf("encoded %d bytes, want %d", buf.Len(), wavHeaderSize+len(data))
	}

	c, err := DecodeWAV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if c.Format() != L16Mono16K {
		t.Fatalf("format = %v", c.Format())
	}
	if !bytes.Equal(c.Data, data) {
		t.Fatal("decoded data differs")
	}
	if c.Duration() != 50*time.Millisecond {
		t.Fatalf("duration = %v", c.Duration())
	}
}

func TestDecodeWAVSkipsUnknownChunks(t *testing.T) {
	data := Int16ToBytes([]int16{1, -1, 2, -2})
	var hdr bytes.Buffer
	if err := EncodeWAV(&hdr, L16Stereo44K1.DataChunk(data)); err != nil {
		t.Fatal(err)
	}
	raw := hdr.Bytes()

	// Insert a LIST chunk with an odd size between "fmt " and "data".
	var b bytes.Buffer
	b.Write(raw[:36])
	b.WriteString("LIST")
	b.Write([]byte{3, 0, 0, 0, 'a', 'b', 'c', 0})
	b.Write(raw[36:])

	c, err := DecodeWAV(&b)
	if err != nil {
		t.Fatal(err)
	}
	if c.Format() != L16Stereo44K1 {
		t.Fatalf("format = %v", c.Format())
	}
	if got := BytesToInt16(c.Data); len(got) != 4 || got[1] != -1 {
		t.Fatalf("samples = %v", got)
	}
}

func TestDecodeWAVUnsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeWAV(&buf, L16Mono16K.DataChunk(nil)); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	raw[34] = 8 // bits per sample

	_, err := DecodeWAV(bytes.NewReader(raw))
	if !errors.Is(err, ErrUnsupportedWAV) {
		t.Fatalf("err = %v, want ErrUnsupportedWAV", err)
	}

	if _, err := DecodeWAV(bytes.NewReader([]byte("not a wav file"))); err == nil {
		t.Fatal("decoded garbage")
	}
}

func TestWAVWriterPatchesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	ww := NewWAVWriter(f, L16Mono24K)
	for range 3 {
		if err := ww.Write(L16Mono24K.DataChunk(constant(7, 240))); err != nil {
			t.Fatal(err)
		}
	}
	if err := ww.Write(L16Mono16K.DataChunk(nil)); err == nil {
		t.Fatal("wrote chunk of a different format")
	}
	if err := ww.Close(); err != nil {
		t.Fatal(err)
	}

	rf, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()
	c, err := DecodeWAV(rf)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 3*480 {
		t.Fatalf("Len() = %d, want %d", c.Len(), 3*480)
	}
}

func TestAtomicFloat32(t *testing.T) {
	a := NewAtomicFloat32(0.5)
	if a.Load() != 0.5 {
		t.Fatalf("Load() = %v", a.Load())
	}
	if old := a.Swap(0.25); old != 0.5 {
		t.Fatalf("Swap() = %v, want 0.5", old)
	}
	a.Store(-1)
	if a.Load() != -1 {
		t.Fatalf("Load() = %v, want -1", a.Load())
	}
}

func TestCopy(t *testing.T) {
	data := generateSineWave(440, 16000, 100)
	var got []byte
	chunks := 0
	w := WriteFunc(func(c Chunk) error {
		chunks++
		var buf bytes.Buffer
		if _, err := c.WriteTo(&buf); err != nil {
			return err
		}
		got = append(got, buf.Bytes()...)
		return nil
	})
	if err := Copy(w, bytes.NewReader(data), L16Mono16K); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("copied %d bytes, want %d", len(got), len(data))
	}
	if chunks == 0 {
		t.Fatal("no chunks written")
	}
}
