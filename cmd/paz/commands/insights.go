package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pazhealth/paz/pkg/cli"
	"github.com/pazhealth/paz/pkg/wellness"
)

// insightsWindow is how many entries feed the streak. The weekly numbers
// only need the last seven days of them.
const insightsWindow = 400

type insightsView struct {
	wellness.Summary `json:",inline"`
	Emoji            string `json:"emoji"`
	Affirmation      string `json:"affirmation"`
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Weekly mood summary and streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()
		ctx := cmd.Context()

		entries, err := e.store.MoodEntries(ctx, e.user(), insightsWindow)
		if err != nil {
			return err
		}
		lang := e.language(ctx)
		now := time.Now()
		v := insightsView{
			Summary:     wellness.Summarize(entries, now, lang),
			Affirmation: wellness.Affirmation(lang, now),
		}
		v.Emoji = wellness.Emoji(v.Average)

		if cmd.Flags().Changed("format") || queryExpr != "" || outputFile != "" {
			return printResult(v)
		}
		fmt.Println(renderInsights(v))
		return nil
	},
}

// renderInsights draws the week as one bar per day.
func renderInsights(v insightsView) string {
	rows := make([]cli.Row, 0, len(v.Days)+2)
	for _, d := range v.Days {
		value := cli.Bar(0, 15) + "   -"
		if d.Count > 0 {
			value = fmt.Sprintf("%s %.1f", cli.Bar(d.Average/float64(wellness.MoodGreat), 15), d.Average)
		}
		rows = append(rows, cli.Row{Label: d.Label, Value: value})
	}
	rows = append(rows,
		cli.Row{Label: "Avg", Value: fmt.Sprintf("%s %.1f (%d check-ins)", v.Emoji, v.Average, v.Entries)},
		cli.Row{Label: "Streak", Value: fmt.Sprintf("%d days", v.Streak)},
	)
	panel := cli.Panel{
		Styles: cli.NewStyles(cli.DefaultTheme),
		Title:  "This week",
		Rows:   rows,
		Help:   v.Affirmation,
	}
	return panel.Render(40)
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}
