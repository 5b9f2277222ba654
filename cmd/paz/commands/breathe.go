package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pazhealth/paz/pkg/breathe"
	"github.com/pazhealth/paz/pkg/cli"
)

var (
	breatheCatalog string
	breatheSink    string
	breatheCycles  int
)

var breatheCmd = &cobra.Command{
	Use:   "breathe",
	Short: "Guided breathing exercises",
	Long: `Guided breathing with an ambient sound loop.

The built-in exercises are relaxing (4-4-6), energizing (4-2-4), box
(4-4-4-4) and sleep (4-7-8). A YAML catalog can replace them:

  exercises:
    - id: calm
      cycles: 5
      phases: {inhale: 4s, hold: 2s, exhale: 6s}
      name: {en: Calm, es: Calma}

Examples:
  paz breathe list
  paz breathe run box
  paz breathe run sleep --sink wav:sleep.wav`,
}

// loadCatalog returns the --catalog exercises or the built-in ones.
func loadCatalog() ([]breathe.Exercise, error) {
	if breatheCatalog == "" {
		return breathe.Exercises, nil
	}
	f, err := os.Open(breatheCatalog)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	exercises, err := breathe.LoadExercises(f)
	if err != nil {
		return nil, err
	}
	if len(exercises) == 0 {
		return nil, fmt.Errorf("catalog %s has no exercises", breatheCatalog)
	}
	return exercises, nil
}

// pattern spells the phase lengths in seconds, "4-7-8".
func pattern(ex breathe.Exercise) string {
	var parts []string
	for _, p := range ex.Order() {
		parts = append(parts, strconv.FormatFloat(ex.Phases.Of(p).Seconds(), 'f', -1, 64))
	}
	return strings.Join(parts, "-")
}

func localized(m map[string]string, lang string) string {
	if s, ok := m[lang]; ok {
		return s
	}
	return m["en"]
}

type exerciseInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Pattern     string `json:"pattern"`
	Cycles      int    `json:"cycles"`
	Duration    string `json:"duration"`
}

var breatheListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List breathing exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := loadCatalog()
		if err != nil {
			return err
		}
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()
		lang := e.language(cmd.Context())

		infos := make([]exerciseInfo, 0, len(exercises))
		for _, ex := range exercises {
			infos = append(infos, exerciseInfo{
				ID:          ex.ID,
				Name:        ex.Label(lang),
				Description: localized(ex.Description, lang),
				Pattern:     pattern(ex),
				Cycles:      ex.Cycles,
				Duration:    cli.FormatDuration(ex.TotalDuration()),
			})
		}
		return printResult(infos)
	},
}

var breatheRunCmd = &cobra.Command{
	Use:   "run <exercise>",
	Short: "Run a breathing exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := loadCatalog()
		if err != nil {
			return err
		}
		ex, ok := breathe.Lookup(exercises, args[0])
		if !ok {
			ids := make([]string, 0, len(exercises))
			for _, x := range exercises {
				ids = append(ids, x.ID)
			}
			return fmt.Errorf("unknown exercise %q (available: %s)", args[0], strings.Join(ids, ", "))
		}
		if breatheCycles > 0 {
			ex.Cycles = breatheCycles
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		lang := e.language(ctx)

		a, err := e.openAudio(ctx, breatheSink)
		if err != nil {
			return err
		}
		defer a.close()

		return runExercise(ctx, a, ex, lang)
	},
}

// runExercise drives a controller through ex, printing a panel on every
// phase change, until the exercise completes or ctx is canceled.
func runExercise(ctx context.Context, a *audio, ex breathe.Exercise, lang string) error {
	changes := make(chan breathe.Snapshot, 1)
	ctrl := breathe.NewController(a.player, breathe.WithOnChange(func(s breathe.Snapshot) {
		select {
		case changes <- s:
		case <-ctx.Done():
		}
	}))

	if err := ctrl.Start(ctx, ex); err != nil {
		return err
	}

	styles := cli.NewStyles(cli.DefaultTheme)
	order := ex.Order()
	for {
		select {
		case <-ctx.Done():
			done := ctrl.Cycle()
			ctrl.Reset()
			a.waitFade(context.Background())
			fmt.Println()
			cli.PrintInfo(os.Stdout, "Stopped after %d of %d cycles.", done, ex.Cycles)
			return nil
		case s := <-changes:
			if s.Status == breathe.Complete {
				a.waitFade(ctx)
				cli.PrintSuccess(os.Stdout, "%s complete: %d cycles in %s.",
					ex.Label(lang), ex.Cycles, cli.FormatDuration(ex.TotalDuration()))
				return nil
			}
			if s.Status != breathe.Running {
				continue
			}
			prev := order[(s.PhaseIndex+len(order)-1)%len(order)]
			fmt.Println(renderBreath(styles, ex, s, prev, lang))
		}
	}
}

// renderBreath draws one phase of a running exercise. The bar stands in for
// the expanding circle: full when the lungs are, empty when they are not.
func renderBreath(styles cli.Styles, ex breathe.Exercise, s breathe.Snapshot, prev breathe.Phase, lang string) string {
	v := breathe.Visual(s.Phase, prev)
	fill := (v.Scale - breathe.ContractedScale) / (breathe.ExpandedScale - breathe.ContractedScale)
	if v.Opacity < breathe.OpaqueOpacity {
		styles.Label = styles.Label.Faint(true)
	}
	panel := cli.Panel{
		Styles: styles,
		Title:  ex.Label(lang),
		Status: pattern(ex),
		Rows: []cli.Row{
			{Label: s.Phase.Label(lang), Value: cli.Bar(fill, 24) + " " + cli.FormatDuration(s.Remaining)},
			{Label: "Cycle", Value: fmt.Sprintf("%d / %d", s.Cycle+1, s.Cycles)},
		},
		Help: "ctrl+c to stop",
	}
	return panel.Render(40)
}

func init() {
	breatheCmd.PersistentFlags().StringVar(&breatheCatalog, "catalog", "", "YAML exercise catalog (default: built-in)")
	breatheRunCmd.Flags().StringVar(&breatheSink, "sink", "speaker", "audio sink: speaker, discard, wav:<path>")
	breatheRunCmd.Flags().IntVar(&breatheCycles, "cycles", 0, "override the number of cycles")

	breatheCmd.AddCommand(breatheListCmd)
	breatheCmd.AddCommand(breatheRunCmd)

	rootCmd.AddCommand(breatheCmd)
}
