package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pazhealth/paz/cmd/paz/internal/config"
	"github.com/pazhealth/paz/pkg/audio/ambient"
	"github.com/pazhealth/paz/pkg/audio/output"
	"github.com/pazhealth/paz/pkg/audio/pcm"
	"github.com/pazhealth/paz/pkg/kv"
	"github.com/pazhealth/paz/pkg/storage"
	"github.com/pazhealth/paz/pkg/wellness"
)

const (
	// defaultUser owns the records when data.yaml names no user.
	defaultUser = "local"

	// keyPrefix is the first key segment of everything paz stores.
	keyPrefix = "paz"
)

// audioFormat is the format of the output context. Samples are converted to
// it on load.
var audioFormat = pcm.L16Stereo48K

// resolveContextDir returns the directory of --context or the current
// context, and "" when neither is set.
func resolveContextDir(cfg *config.Config) (string, error) {
	if contextName == "" && cfg.CurrentContext == "" {
		return "", nil
	}
	return cfg.ResolveContext(contextName)
}

// env is what a command needs from the configuration and the database.
type env struct {
	cfg    *config.Config
	ctxDir string
	data   *config.DataConfig
	kv     kv.Store
	store  *wellness.Store
}

// openEnv resolves the context and opens the wellness database.
func openEnv() (*env, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	dir, err := resolveContextDir(cfg)
	if err != nil {
		return nil, err
	}
	data, err := config.LoadOptional[config.DataConfig](dir, config.ServiceData)
	if err != nil {
		return nil, err
	}

	dbDir := data.Dir
	if dbDir == "" {
		dbDir = cfg.DataDir()
	}
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := kv.NewBadger(kv.BadgerOptions{Dir: dbDir, Logger: slog.Default()})
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:    cfg,
		ctxDir: dir,
		data:   data,
		kv:     store,
		store:  wellness.New(store, wellness.WithPrefix(keyPrefix)),
	}, nil
}

func (e *env) close() {
	if err := e.kv.Close(); err != nil {
		slog.Warn("paz: close database", "err", err)
	}
}

func (e *env) user() string {
	if e.data.User != "" {
		return e.data.User
	}
	return defaultUser
}

// language is data.yaml's language, or the one in the user's profile.
func (e *env) language(ctx context.Context) string {
	if e.data.Language != "" {
		return e.data.Language
	}
	p, err := e.store.Profile(ctx, e.user())
	if err != nil {
		slog.Warn("paz: read profile", "err", err)
		return wellness.DefaultProfile().Language
	}
	return p.Language
}

// soundsConfig loads sounds.yaml of the resolved context.
func (e *env) soundsConfig() (*config.SoundsConfig, error) {
	return config.LoadOptional[config.SoundsConfig](e.ctxDir, config.ServiceSounds)
}

// soundStore opens the file store holding the ambient samples: the S3 bucket
// of sounds.yaml, its dir, or the sounds directory next to the config.
func (e *env) soundStore(sc *config.SoundsConfig) (storage.FileStore, error) {
	if s3cfg, ok := sc.S3(); ok {
		return storage.NewS3(storage.NewS3Client(s3cfg), s3cfg.Bucket, s3cfg.Prefix), nil
	}
	dir := sc.Dir
	if dir == "" {
		dir = e.cfg.SoundsDir()
	}
	return storage.NewLocal(dir)
}

// openSink parses --sink: "speaker", "discard" or "wav:<path>".
func openSink(name string) (output.Sink, error) {
	switch {
	case name == "" || name == "speaker":
		return output.NewSpeaker(audioFormat, 100*time.Millisecond), nil
	case name == "discard":
		return output.Discard(audioFormat), nil
	case strings.HasPrefix(name, "wav:"):
		path := strings.TrimPrefix(name, "wav:")
		if path == "" {
			return nil, fmt.Errorf("sink %q: missing file path", name)
		}
		return output.WAVFile(path, audioFormat), nil
	}
	return nil, fmt.Errorf("unknown sink %q (speaker, discard, wav:<path>)", name)
}

// audio is an output context with the ambient player attached.
type audio struct {
	out    *output.Context
	player *ambient.Player
	lib    ambient.Library
	store  *ambient.StoreLibrary
}

// openAudio builds the output context for --sink and an ambient player over
// the configured sound library plus the synthesized chimes.
func (e *env) openAudio(ctx context.Context, sink string) (*audio, error) {
	s, err := openSink(sink)
	if err != nil {
		return nil, err
	}
	sc, err := e.soundsConfig()
	if err != nil {
		return nil, err
	}
	fs, err := e.soundStore(sc)
	if err != nil {
		return nil, err
	}

	out := output.NewContext(audioFormat, s)
	lib := ambient.NewStoreLibrary(fs, "", audioFormat)
	opts := []ambient.Option{}
	if sc.Volume != nil {
		opts = append(opts, ambient.WithVolume(*sc.Volume))
	}
	chain := ambient.Chain(lib, ambient.NewChimeLibrary(audioFormat))
	player := ambient.NewPlayer(out, chain, opts...)

	p, err := e.store.Profile(ctx, e.user())
	if err != nil {
		slog.Warn("paz: read profile", "err", err)
	} else {
		player.SetEnabled(p.SoundEnabled)
	}
	return &audio{out: out, player: player, lib: chain, store: lib}, nil
}

func (a *audio) close() {
	a.player.StopLoop()
	if err := a.out.Close(); err != nil {
		slog.Warn("paz: close audio", "err", err)
	}
}

// waitFade blocks until the ambient fade is over or ctx is done.
func (a *audio) waitFade(ctx context.Context) {
	t := time.NewTicker(20 * time.Millisecond)
	defer t.Stop()
	for a.player.Fading() {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
