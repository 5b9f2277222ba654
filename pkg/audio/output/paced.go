package output

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pazhealth/paz/pkg/audio/pcm"
)

// DefaultPeriod is how much audio a paced sink pulls per tick.
const DefaultPeriod = 20 * time.Millisecond

// PacedSink pulls one period of audio per tick and writes it to a pcm.Writer,
// so the source is consumed in real time without an audio device.
type PacedSink struct {
	format pcm.Format
	period time.Duration
	open   func() (pcm.Writer, error)

	mu   sync.Mutex
	w    pcm.Writer
	stop chan struct{}
	done chan struct{}
	err  error
}

// NewPacedSink returns a sink that writes audio of format to the writer
// returned by open. open is called on the first Start.
func NewPacedSink(format pcm.Format, period time.Duration, open func() (pcm.Writer, error)) *PacedSink {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &PacedSink{format: format, period: period, open: open}
}

// Discard returns a sink that consumes audio in real time and drops it.
func Discard(format pcm.Format) *PacedSink {
	return NewPacedSink(format, DefaultPeriod, func() (pcm.Writer, error) {
		return pcm.Discard, nil
	})
}

// WAVFile returns a sink that records to a WAV file at path. The file is
// created on the first Start and finalized on Close.
func WAVFile(path string, format pcm.Format) *PacedSink {
	return NewPacedSink(format, DefaultPeriod, func() (pcm.Writer, error) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return pcm.NewWAVWriter(f, format), nil
	})
}

// Start implements Sink.
func (s *PacedSink) Start(ctx context.Context, src io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		return nil
	}
	if s.w == nil {
		w, err := s.open()
		if err != nil {
			return err
		}
		s.w = w
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.pump(src, s.w, s.stop, s.done)
	return nil
}

func (s *PacedSink) pump(src io.Reader, w pcm.Writer, stop, done chan struct{}) {
	defer close(done)

	buf := make([]byte, s.format.BytesInDuration(s.period))
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		n, err := io.ReadFull(src, buf)
		if n > 0 {
			if werr := w.Write(s.format.DataChunk(buf[:n])); werr != nil {
				s.setErr(werr)
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				s.setErr(err)
			}
			return
		}
	}
}

func (s *PacedSink) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// Stop implements Sink. It waits for the pump to exit and returns the first
// write or read error it hit.
func (s *PacedSink) Stop() error {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.err
	s.err = nil
	return err
}

// Close stops the sink and closes the writer if it is a pcm.WriteCloser.
func (s *PacedSink) Close() error {
	err := s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	if wc, ok := s.w.(pcm.WriteCloser); ok {
		err = errors.Join(err, wc.Close())
	}
	s.w = nil
	return err
}
