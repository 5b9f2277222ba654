package commands

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pazhealth/paz/pkg/audio/tone"
	"github.com/pazhealth/paz/pkg/cli"
)

var (
	toneSink     string
	toneDuration time.Duration
	toneVolume   float64
)

var toneCmd = &cobra.Command{
	Use:   "tone",
	Short: "Healing frequencies and binaural beats",
	Long: `Play pure sine tones and binaural beats.

Binaural beats need headphones: the left ear hears the base frequency and
the right ear the base plus the beat.

Examples:
  paz tone list
  paz tone play 432
  paz tone play theta --duration 10m
  paz tone binaural 200 9 --sink wav:theta.wav --duration 30s`,
}

type presetInfo struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Kind     string  `json:"kind"`
	Hz       float64 `json:"hz"`
	BaseHz   float64 `json:"base_hz,omitempty"`
}

var toneListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the healing sound presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()
		lang := e.language(cmd.Context())

		infos := make([]presetInfo, 0, len(tone.Presets))
		for _, p := range tone.Presets {
			infos = append(infos, presetInfo{
				ID:       p.ID,
				Name:     p.Label(lang),
				Category: p.Category,
				Kind:     p.Kind.String(),
				Hz:       p.Hz,
				BaseHz:   p.BaseHz,
			})
		}
		return printResult(infos)
	},
}

// parseHz parses a positive finite frequency.
func parseHz(s string) (float64, error) {
	hz, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(hz, 0) || math.IsNaN(hz) || hz <= 0 {
		return 0, fmt.Errorf("invalid frequency %q", s)
	}
	return hz, nil
}

var tonePlayCmd = &cobra.Command{
	Use:   "play <hz|preset>",
	Short: "Play a pure tone or a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if p, ok := tone.Lookup(args[0]); ok {
			return playTone(cmd.Context(), p.ID, func(ctx context.Context, eng *tone.Engine) error {
				return eng.PlayPreset(ctx, p)
			})
		}
		hz, err := parseHz(args[0])
		if err != nil {
			return fmt.Errorf("%w; not a preset either (see 'paz tone list')", err)
		}
		return playTone(cmd.Context(), fmt.Sprintf("%g Hz", hz), func(ctx context.Context, eng *tone.Engine) error {
			return eng.PlayFrequency(ctx, hz)
		})
	},
}

var toneBinauralCmd = &cobra.Command{
	Use:   "binaural <base-hz> <beat-hz>",
	Short: "Play a binaural beat",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := parseHz(args[0])
		if err != nil {
			return err
		}
		beat, err := parseHz(args[1])
		if err != nil {
			return err
		}
		label := fmt.Sprintf("%g Hz + %g Hz beat", base, beat)
		return playTone(cmd.Context(), label, func(ctx context.Context, eng *tone.Engine) error {
			return eng.PlayBinauralBeat(ctx, base, beat)
		})
	},
}

// playTone starts a session with play, holds it for --duration or until
// interrupted, then fades it out.
func playTone(ctx context.Context, label string, play func(context.Context, *tone.Engine) error) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	a, err := e.openAudio(ctx, toneSink)
	if err != nil {
		return err
	}
	defer a.close()

	eng, err := tone.NewEngine(a.out, tone.WithVolume(toneVolume))
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := play(ctx, eng); err != nil {
		return err
	}
	for _, o := range eng.Oscillators() {
		slog.Debug("paz: oscillator", "hz", o.Frequency, "pan", o.Pan, "panned", o.Panned)
	}
	if toneDuration > 0 {
		cli.PrintInfo(os.Stdout, "Playing %s for %s.", label, cli.FormatDuration(toneDuration))
	} else {
		cli.PrintInfo(os.Stdout, "Playing %s. Press ctrl+c to stop.", label)
	}

	var timeout <-chan time.Time
	if toneDuration > 0 {
		t := time.NewTimer(toneDuration)
		defer t.Stop()
		timeout = t.C
	}
	select {
	case <-ctx.Done():
	case <-timeout:
	}

	eng.Stop()
	waitTeardown(eng, tone.DefaultStopFade+time.Second)
	cli.PrintSuccess(os.Stdout, "Stopped.")
	return nil
}

// waitTeardown waits for the stop fade to release the oscillators.
func waitTeardown(eng *tone.Engine, limit time.Duration) {
	deadline := time.Now().Add(limit)
	for len(eng.Oscillators()) > 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
}

func init() {
	for _, c := range []*cobra.Command{tonePlayCmd, toneBinauralCmd} {
		c.Flags().StringVar(&toneSink, "sink", "speaker", "audio sink: speaker, discard, wav:<path>")
		c.Flags().DurationVar(&toneDuration, "duration", 0, "stop after this long (default: until interrupted)")
		c.Flags().Float64Var(&toneVolume, "volume", tone.DefaultVolume, "volume from 0 to 1")
	}

	toneCmd.AddCommand(toneListCmd)
	toneCmd.AddCommand(tonePlayCmd)
	toneCmd.AddCommand(toneBinauralCmd)

	rootCmd.AddCommand(toneCmd)
}
