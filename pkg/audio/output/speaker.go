package output

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/pazhealth/paz/pkg/audio/pcm"
)

// oto allows one context per process.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
	otoFmt  pcm.Format
	otoDone chan struct{}
)

func openOto(format pcm.Format, bufferSize time.Duration) (*oto.Context, <-chan struct{}, error) {
	otoOnce.Do(func() {
		var ready chan struct{}
		otoCtx, ready, otoErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   format.SampleRate(),
			ChannelCount: format.Channels(),
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   bufferSize,
		})
		otoFmt = format
		otoDone = ready
	})
	if otoErr != nil {
		return nil, nil, otoErr
	}
	if otoFmt != format {
		return nil, nil, fmt.Errorf("output: speaker already opened as %v", otoFmt)
	}
	return otoCtx, otoDone, nil
}

// Speaker plays audio through the default output device.
type Speaker struct {
	format     pcm.Format
	bufferSize time.Duration

	mu     sync.Mutex
	player *oto.Player
}

// NewSpeaker returns a speaker sink for format. bufferSize trades latency
// for underrun safety; zero lets the driver choose.
func NewSpeaker(format pcm.Format, bufferSize time.Duration) *Speaker {
	return &Speaker{format: format, bufferSize: bufferSize}
}

// Start implements Sink.
func (s *Speaker) Start(ctx context.Context, src io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player != nil {
		return nil
	}
	oc, ready, err := openOto(s.format, s.bufferSize)
	if err != nil {
		return fmt.Errorf("output: open speaker: %w", err)
	}
	select {
	case <-ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	p := oc.NewPlayer(src)
	p.Play()
	s.player = p
	return nil
}

// Stop implements Sink.
func (s *Speaker) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return nil
	}
	p := s.player
	s.player = nil
	p.Pause()
	return p.Close()
}
