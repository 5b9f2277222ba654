package output

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"testing/synctest"
	"time"

	"github.com/pazhealth/paz/pkg/audio/pcm"
)

type fakeSink struct {
	startErr error
	starts   int
	stops    int
	closed   bool
}

func (s *fakeSink) Start(ctx context.Context, src io.Reader) error {
	if s.startErr != nil {
		return s.startErr
	}
	s.starts++
	return nil
}

func (s *fakeSink) Stop() error {
	s.stops++
	return nil
}

func (s *fakeSink) Close() error {
	s.closed = true
	return nil
}

func TestContextLifecycle(t *testing.T) {
	sink := &fakeSink{}
	c := NewContext(pcm.L16Stereo48K, sink)
	if c.State() != Suspended {
		t.Fatalf("initial state = %v", c.State())
	}
	if c.Format() != pcm.L16Stereo48K {
		t.Fatalf("Format() = %v", c.Format())
	}

	ctx := context.Background()
	if err := c.Resume(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Resume(ctx); err != nil {
		t.Fatal(err)
	}
	if c.State() != Running || sink.starts != 1 {
		t.Fatalf("state = %v, starts = %d", c.State(), sink.starts)
	}

	if err := c.Suspend(); err != nil {
		t.Fatal(err)
	}
	if c.State() != Suspended || sink.stops != 1 {
		t.Fatalf("state = %v, stops = %d", c.State(), sink.stops)
	}
	if err := c.Resume(ctx); err != nil {
		t.Fatal(err)
	}

	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if c.State() != Closed || !sink.closed || sink.stops != 2 {
		t.Fatalf("state = %v, closed = %v, stops = %d", c.State(), sink.closed, sink.stops)
	}
	if err := c.Resume(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("Resume after close: err = %v, want ErrClosed", err)
	}
	if _, err := c.Mixer().Add(bytes.NewReader(nil)); err == nil {
		t.Fatal("mixer accepted a track after close")
	}
}

func TestContextResumeFailure(t *testing.T) {
	cause := errors.New("no device")
	c := NewContext(pcm.L16Stereo48K, &fakeSink{startErr: cause})
	err := c.Resume(context.Background())
	if !errors.Is(err, ErrSuspended) {
		t.Fatalf("err = %v, want ErrSuspended", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want it to wrap the sink error", err)
	}
	if c.State() != Suspended {
		t.Fatalf("state = %v, want suspended", c.State())
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Suspended: "suspended", Running: "running", Closed: "closed", State(9): "State(9)"} {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestWAVFileRecordsInRealTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.wav")
	synctest.Test(t, func(t *testing.T) {
		c := NewContext(pcm.L16Mono16K, WAVFile(path, pcm.L16Mono16K))
		tone := pcm.Int16ToBytes(slices.Repeat([]int16{1000}, 16000))
		if _, err := c.Mixer().Add(bytes.NewReader(tone)); err != nil {
			t.Fatal(err)
		}
		if err := c.Resume(context.Background()); err != nil {
			t.Fatal(err)
		}

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		if err := c.Close(); err != nil {
			t.Fatal(err)
		}
	})

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	chunk, err := pcm.DecodeWAV(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := chunk.Duration(); got != 100*time.Millisecond {
		t.Fatalf("recorded %v, want 100ms", got)
	}
	if s := pcm.BytesToInt16(chunk.Data)[0]; s < 990 || s > 1010 {
		t.Fatalf("first sample = %d, want ~1000", s)
	}
}

func TestDiscardStopRestart(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sink := Discard(pcm.L16Mono16K)
		src := &countingReader{}
		ctx := context.Background()
		if err := sink.Start(ctx, src); err != nil {
			t.Fatal(err)
		}
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()
		if err := sink.Stop(); err != nil {
			t.Fatal(err)
		}
		first := src.n

		time.Sleep(time.Second)
		if src.n != first {
			t.Fatal("stopped sink kept reading")
		}

		if err := sink.Start(ctx, src); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
		synctest.Wait()
		if err := sink.Close(); err != nil {
			t.Fatal(err)
		}
		if src.n <= first {
			t.Fatal("restarted sink did not read")
		}
	})
}

type countingReader struct {
	n int
}

func (r *countingReader) Read(p []byte) (int, error) {
	r.n += len(p)
	clear(p)
	return len(p), nil
}
