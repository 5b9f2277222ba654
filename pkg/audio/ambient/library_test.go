package ambient

import (
	"context"
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/pazhealth/paz/pkg/audio/pcm"
	"github.com/pazhealth/paz/pkg/storage"
)

func putWAV(t *testing.T, store storage.FileStore, path string, c pcm.Chunk) {
	t.Helper()
	w, err := store.Write(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if err := pcm.EncodeWAV(w, c); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

// countingStore counts reads so tests can observe the cache.
type countingStore struct {
	storage.FileStore
	reads int
}

func (s *countingStore) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	s.reads++
	return s.FileStore.Read(ctx, path)
}

func TestStoreLibrary(t *testing.T) {
	mem := storage.NewMemory()
	putWAV(t, mem, "sounds/gentlerain.wav", pcm.L16Mono48K.DataChunk(pcm.Int16ToBytes([]int16{10, 20, 30})))
	putWAV(t, mem, "sounds/extra/nested.wav", pcm.L16Mono48K.DataChunk(nil))
	putWAV(t, mem, "sounds/readme.txt", pcm.L16Mono48K.DataChunk(nil))
	store := &countingStore{FileStore: mem}

	lib := NewStoreLibrary(store, "/sounds/", pcm.L16Stereo48K)
	ctx := context.Background()
	c, err := lib.Sample(ctx, GentleRain)
	if err != nil {
		t.Fatal(err)
	}
	if c.Format() != pcm.L16Stereo48K {
		t.Fatalf("format = %v", c.Format())
	}
	if got := pcm.BytesToInt16(c.Data); !slices.Equal(got, []int16{10, 10, 20, 20, 30, 30}) {
		t.Fatalf("samples = %v", got)
	}

	if _, err := lib.Sample(ctx, GentleRain); err != nil {
		t.Fatal(err)
	}
	if store.reads != 1 {
		t.Fatalf("reads = %d, want 1 (cached)", store.reads)
	}

	if _, err := lib.Sample(ctx, "thunder"); !errors.Is(err, ErrUnknownSound) {
		t.Fatalf("err = %v, want ErrUnknownSound", err)
	}

	ids, err := lib.IDs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(ids, []string{GentleRain}) {
		t.Fatalf("IDs = %v", ids)
	}
}

func TestStoreLibraryBadWAV(t *testing.T) {
	mem := storage.NewMemory()
	w, _ := mem.Write(context.Background(), "broken.wav")
	w.Write([]byte("definitely not RIFF"))
	w.Close()

	lib := NewStoreLibrary(mem, "", pcm.L16Stereo48K)
	_, err := lib.Sample(context.Background(), "broken")
	if err == nil || errors.Is(err, ErrUnknownSound) {
		t.Fatalf("err = %v, want a decode error", err)
	}
}

func TestChimeLibrary(t *testing.T) {
	lib := NewChimeLibrary(pcm.L16Stereo48K)
	ctx := context.Background()
	for _, id := range []string{Welcome, Success} {
		c, err := lib.Sample(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if c.Len() == 0 || c.Len()%4 != 0 {
			t.Fatalf("%s: Len() = %d", id, c.Len())
		}
		samples := pcm.BytesToInt16(c.Data)
		var peak int16
		for i := 0; i < len(samples); i += 2 {
			if samples[i] != samples[i+1] {
				t.Fatalf("%s: channels differ at frame %d", id, i/2)
			}
			peak = max(peak, samples[i])
		}
		if peak == 0 {
			t.Fatalf("%s is silent", id)
		}
		if samples[0] != 0 {
			t.Fatalf("%s starts with a click: %d", id, samples[0])
		}
	}
	if _, err := lib.Sample(ctx, GentleRain); !errors.Is(err, ErrUnknownSound) {
		t.Fatalf("err = %v, want ErrUnknownSound", err)
	}
}

type failingLibrary struct{ err error }

func (l failingLibrary) Sample(context.Context, string) (*pcm.DataChunk, error) {
	return nil, l.err
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	lib := Chain(staticLibrary{GentleRain: 1}, NewChimeLibrary(pcm.L16Stereo48K))
	if _, err := lib.Sample(ctx, GentleRain); err != nil {
		t.Fatal(err)
	}
	if _, err := lib.Sample(ctx, Welcome); err != nil {
		t.Fatal(err)
	}
	if _, err := lib.Sample(ctx, "thunder"); !errors.Is(err, ErrUnknownSound) {
		t.Fatalf("err = %v, want ErrUnknownSound", err)
	}

	boom := errors.New("disk on fire")
	lib = Chain(failingLibrary{boom}, staticLibrary{GentleRain: 1})
	if _, err := lib.Sample(ctx, GentleRain); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}
