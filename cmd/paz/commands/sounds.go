package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pazhealth/paz/pkg/audio/ambient"
	"github.com/pazhealth/paz/pkg/audio/pcm"
	"github.com/pazhealth/paz/pkg/cli"
)

var (
	soundsSink     string
	soundsLoop     bool
	soundsDuration time.Duration
	soundsFade     time.Duration
)

var soundsCmd = &cobra.Command{
	Use:   "sounds",
	Short: "Ambient sound library",
	Long: `Manage and play the ambient sounds used by the breathing exercises.

Sounds are WAV files named <id>.wav, read from the directory or S3 bucket
configured in sounds.yaml. The welcome and success chimes are built in.

Examples:
  paz sounds import rain.wav gentlerain
  paz sounds list
  paz sounds play oceanwaves --loop --duration 5m
  paz config set home sounds bucket my-paz-sounds`,
}

type soundInfo struct {
	ID        string   `json:"id"`
	Source    string   `json:"source"`
	Exercises []string `json:"exercises,omitempty"`
}

// exercisesFor returns the exercise ids that loop the sound.
func exercisesFor(id string) []string {
	var ids []string
	for ex, sound := range ambient.ExerciseSounds {
		if sound == id {
			ids = append(ids, ex)
		}
	}
	slices.Sort(ids)
	return ids
}

var soundsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available sounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()
		sc, err := e.soundsConfig()
		if err != nil {
			return err
		}
		fs, err := e.soundStore(sc)
		if err != nil {
			return err
		}
		ids, err := ambient.NewStoreLibrary(fs, "", audioFormat).IDs(cmd.Context())
		if err != nil {
			return fmt.Errorf("list sounds: %w", err)
		}
		slices.Sort(ids)

		infos := make([]soundInfo, 0, len(ids)+2)
		for _, id := range ids {
			infos = append(infos, soundInfo{ID: id, Source: "library", Exercises: exercisesFor(id)})
		}
		for _, id := range []string{ambient.Welcome, ambient.Success} {
			infos = append(infos, soundInfo{ID: id, Source: "chime"})
		}
		return printResult(infos)
	},
}

var soundsPlayCmd = &cobra.Command{
	Use:   "play <id>",
	Short: "Play a sound once, or loop it with --loop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		a, err := e.openAudio(ctx, soundsSink)
		if err != nil {
			return err
		}
		defer a.close()

		if !soundsLoop {
			c, err := a.lib.Sample(ctx, id)
			if err != nil {
				return err
			}
			if err := a.player.Play(ctx, id); err != nil {
				return err
			}
			cli.PrintInfo(os.Stdout, "Playing %s (%s).", id, cli.FormatDuration(c.Duration()))
			sleepCtx(ctx, c.Duration())
			return nil
		}

		if err := a.player.PlayLoop(ctx, id); err != nil {
			return err
		}
		cli.PrintInfo(os.Stdout, "Looping %s. Press ctrl+c to stop.", id)
		if soundsDuration > 0 {
			sleepCtx(ctx, soundsDuration)
		} else {
			<-ctx.Done()
		}
		a.player.FadeOutLoop(soundsFade)
		a.waitFade(context.Background())
		cli.PrintSuccess(os.Stdout, "Stopped.")
		return nil
	},
}

// sleepCtx sleeps for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

var soundsImportCmd = &cobra.Command{
	Use:   "import <file.wav> [id]",
	Short: "Add a WAV file to the sound library",
	Long: `Copy a WAV file into the sound library. The id defaults to the file
name without its extension. The file must be 16-bit PCM, mono or stereo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[0]
		id := strings.ToLower(strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)))
		if len(args) == 2 {
			id = args[1]
		}
		if id == "" || strings.ContainsAny(id, "/\\") {
			return fmt.Errorf("invalid sound id %q", id)
		}

		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("read %s: %w", src, err)
		}
		c, err := pcm.DecodeWAV(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("%s: %w", src, err)
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()
		sc, err := e.soundsConfig()
		if err != nil {
			return err
		}
		fs, err := e.soundStore(sc)
		if err != nil {
			return err
		}

		w, err := fs.Write(cmd.Context(), id+".wav")
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
			w.Close()
			return fmt.Errorf("write %s: %w", id, err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("write %s: %w", id, err)
		}
		cli.PrintSuccess(os.Stdout, "Imported %s (%s, %s, %s).",
			id, c.Format(), cli.FormatDuration(c.Duration()), cli.FormatBytes(int64(len(data))))
		return nil
	},
}

func init() {
	soundsPlayCmd.Flags().StringVar(&soundsSink, "sink", "speaker", "audio sink: speaker, discard, wav:<path>")
	soundsPlayCmd.Flags().BoolVar(&soundsLoop, "loop", false, "loop the sound")
	soundsPlayCmd.Flags().DurationVar(&soundsDuration, "duration", 0, "with --loop, stop after this long (default: until interrupted)")
	soundsPlayCmd.Flags().DurationVar(&soundsFade, "fade", time.Second, "with --loop, fade-out length")

	soundsCmd.AddCommand(soundsListCmd)
	soundsCmd.AddCommand(soundsPlayCmd)
	soundsCmd.AddCommand(soundsImportCmd)

	rootCmd.AddCommand(soundsCmd)
}
