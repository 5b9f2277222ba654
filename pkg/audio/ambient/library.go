package ambient

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/pazhealth/paz/pkg/audio/pcm"
	"github.com/pazhealth/paz/pkg/audio/resampler"
	"github.com/pazhealth/paz/pkg/storage"
)

// ErrUnknownSound is returned for a sound id no library provides.
var ErrUnknownSound = errors.New("ambient: unknown sound")

// Library provides decoded samples by sound id.
type Library interface {
	Sample(ctx context.Context, id string) (*pcm.DataChunk, error)
}

// Well-known sound ids.
const (
	GentleRain    = "gentlerain"
	ForestBirds   = "forestbirds"
	GentleWind    = "gentlewind"
	OceanWaves    = "oceanwaves"
	NightCrickets = "nightcrickets"
	Fireplace     = "fireplace"

	Welcome = "welcome"
	Success = "success"
)

// ExerciseSounds maps breathing exercise ids to the loop played during the
// exercise.
var ExerciseSounds = map[string]string{
	"relaxing":   GentleRain,
	"energizing": Fireplace,
	"box":        OceanWaves,
	"sleep":      NightCrickets,
}

// StoreLibrary loads "<dir>/<id>.wav" files from a FileStore, converts them
// to the output format and caches the result.
type StoreLibrary struct {
	store  storage.FileStore
	dir    string
	format pcm.Format

	mu    sync.Mutex
	cache map[string]*pcm.DataChunk
}

// NewStoreLibrary returns a library reading WAV files under dir.
func NewStoreLibrary(store storage.FileStore, dir string, format pcm.Format) *StoreLibrary {
	return &StoreLibrary{
		store:  store,
		dir:    strings.Trim(dir, "/"),
		format: format,
		cache:  make(map[string]*pcm.DataChunk),
	}
}

func (l *StoreLibrary) path(id string) string {
	return path.Join(l.dir, id+".wav")
}

// Sample implements Library.
func (l *StoreLibrary) Sample(ctx context.Context, id string) (*pcm.DataChunk, error) {
	l.mu.Lock()
	c, ok := l.cache[id]
	l.mu.Unlock()
	if ok {
		return c, nil
	}

	r, err := l.store.Read(ctx, l.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSound, id)
		}
		return nil, fmt.Errorf("ambient: open %s: %w", id, err)
	}
	defer r.Close()

	c, err = pcm.DecodeWAV(r)
	if err != nil {
		return nil, fmt.Errorf("ambient: decode %s: %w", id, err)
	}
	c, err = resampler.Convert(c, l.format)
	if err != nil {
		return nil, fmt.Errorf("ambient: convert %s: %w", id, err)
	}

	l.mu.Lock()
	l.cache[id] = c
	l.mu.Unlock()
	return c, nil
}

// IDs lists the sound ids available in the store.
func (l *StoreLibrary) IDs(ctx context.Context) ([]string, error) {
	prefix := ""
	if l.dir != "" {
		prefix = l.dir + "/"
	}
	paths, err := l.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, p := range paths {
		rest := strings.TrimPrefix(p, prefix)
		if strings.Contains(rest, "/") || !strings.HasSuffix(rest, ".wav") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(rest, ".wav"))
	}
	return ids, nil
}

// ChimeLibrary synthesizes the UI sounds Welcome and Success as struck bell
// tones.
type ChimeLibrary struct {
	format pcm.Format

	once   sync.Once
	chimes map[string]*pcm.DataChunk
}

// NewChimeLibrary returns a chime library rendering in format.
func NewChimeLibrary(format pcm.Format) *ChimeLibrary {
	return &ChimeLibrary{format: format}
}

type chimeNote struct {
	hz     float64
	offset float64 // seconds
	length float64 // seconds
}

var chimeScores = map[string][]chimeNote{
	Welcome: {{hz: 639, length: 1.6}, {hz: 852, offset: 0.25, length: 1.6}, {hz: 963, offset: 0.5, length: 1.8}},
	Success: {{hz: 852, length: 0.6}, {hz: 963, offset: 0.12, length: 0.9}},
}

// Sample implements Library.
func (l *ChimeLibrary) Sample(_ context.Context, id string) (*pcm.DataChunk, error) {
	l.once.Do(func() {
		l.chimes = make(map[string]*pcm.DataChunk, len(chimeScores))
		for name, score := range chimeScores {
			l.chimes[name] = renderChime(l.format, score, 0.6)
		}
	})
	c, ok := l.chimes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSound, id)
	}
	return c, nil
}

// bell partials: ratio, relative amplitude, decay multiplier.
var bellPartials = [...][3]float64{
	{1, 1, 1},
	{2, 0.5, 1.6},
	{3, 0.25, 2.2},
	{4.2, 0.12, 3},
}

func renderChime(format pcm.Format, score []chimeNote, volume float64) *pcm.DataChunk {
	rate := float64(format.SampleRate())
	var end float64
	for _, n := range score {
		end = max(end, n.offset+n.length)
	}
	frames := int(end * rate)
	mix := make([]float64, frames)
	for _, n := range score {
		start := int(n.offset * rate)
		length := int(n.length * rate)
		for i := 0; i < length && start+i < frames; i++ {
			t := float64(i) / rate
			progress := t / n.length
			var s float64
			for _, p := range bellPartials {
				s += p[1] * math.Exp(-progress*p[2]*4) * math.Sin(2*math.Pi*n.hz*p[0]*t)
			}
			// 3ms attack avoids a click at the strike.
			env := 1.0
			if t < 0.003 {
				env = t / 0.003
			}
			mix[start+i] += s / 1.9 * env
		}
	}

	scale := volume / math.Sqrt(float64(len(score)))
	channels := format.Channels()
	samples := make([]int16, frames*channels)
	for i, v := range mix {
		s := int16(max(-1, min(1, v*scale)) * 32767)
		for ch := range channels {
			samples[i*channels+ch] = s
		}
	}
	return format.DataChunk(pcm.Int16ToBytes(samples))
}

// Chain returns a Library that asks each library in turn and returns the
// first sample found. Errors other than ErrUnknownSound stop the search.
func Chain(libs ...Library) Library {
	return chain(libs)
}

type chain []Library

func (c chain) Sample(ctx context.Context, id string) (*pcm.DataChunk, error) {
	for _, l := range c {
		s, err := l.Sample(ctx, id)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrUnknownSound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSound, id)
}
