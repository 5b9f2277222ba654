package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pazhealth/paz/pkg/cli"
	"github.com/pazhealth/paz/pkg/wellness"
)

var moodLimit int

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Daily mood check-ins",
	Long: `Record how you feel on a scale from 1 to 5:

  1 struggling   2 low   3 okay   4 good   5 great

Examples:
  paz mood add 4 "long walk by the river"
  paz mood list --limit 7
  paz mood list -o json -q '[.[] | .mood] | add / length'`,
}

var moodAddCmd = &cobra.Command{
	Use:   "add <1-5> [note...]",
	Short: "Record a mood",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || !wellness.Mood(n).Valid() {
			return fmt.Errorf("mood must be a number from 1 to 5, got %q", args[0])
		}
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()
		ctx := cmd.Context()

		entry, err := e.store.SaveMoodEntry(ctx, e.user(), wellness.Mood(n), strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		lang := e.language(ctx)
		p, err := e.store.Profile(ctx, e.user())
		if err != nil {
			return err
		}
		cli.PrintSuccess(os.Stdout, "Mood saved: %s %s. Streak: %d days.",
			wellness.Emoji(float64(entry.Mood)), entry.Mood.Label(lang), p.Streak)
		return nil
	},
}

type moodView struct {
	wellness.MoodEntry `json:",inline"`
	Label              string `json:"label"`
}

var moodListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent moods, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()
		ctx := cmd.Context()

		entries, err := e.store.MoodEntries(ctx, e.user(), moodLimit)
		if err != nil {
			return err
		}
		lang := e.language(ctx)
		views := make([]moodView, 0, len(entries))
		for _, m := range entries {
			views = append(views, moodView{MoodEntry: m, Label: m.Mood.Label(lang)})
		}
		return printResult(views)
	},
}

func init() {
	moodListCmd.Flags().IntVarP(&moodLimit, "limit", "n", wellness.DefaultLimit, "maximum number of entries")

	moodCmd.AddCommand(moodAddCmd)
	moodCmd.AddCommand(moodListCmd)

	rootCmd.AddCommand(moodCmd)
}
