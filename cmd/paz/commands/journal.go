package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pazhealth/paz/pkg/cli"
	"github.com/pazhealth/paz/pkg/wellness"
)

var (
	journalGratitude []string
	journalLimit     int
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Journal entries and daily prompts",
	Long: `Write journal entries with up to three things you are grateful for.

Examples:
  paz journal prompt
  paz journal add "Finished the book I started in spring." -g "sunny morning" -g "call with mom"
  paz journal list -n 5`,
}

var journalAddCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Write a journal entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		entry, err := e.store.SaveJournalEntry(cmd.Context(), e.user(), strings.Join(args, " "), journalGratitude)
		if err != nil {
			return err
		}
		cli.PrintSuccess(os.Stdout, "Journal entry saved (%d gratitude items).", len(entry.Gratitude))
		return nil
	},
}

var journalListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent journal entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		entries, err := e.store.JournalEntries(cmd.Context(), e.user(), journalLimit)
		if err != nil {
			return err
		}
		return printResult(entries)
	},
}

type promptView struct {
	Prompt      string `json:"prompt"`
	Affirmation string `json:"affirmation"`
}

var journalPromptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Show today's writing prompt and affirmation",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		lang := e.language(cmd.Context())
		now := time.Now()
		v := promptView{
			Prompt:      wellness.PromptOfDay(lang, now),
			Affirmation: wellness.Affirmation(lang, now),
		}
		if cmd.Flags().Changed("format") || queryExpr != "" || outputFile != "" {
			return printResult(v)
		}
		fmt.Println(v.Prompt)
		fmt.Println()
		fmt.Printf("“%s”\n", v.Affirmation)
		return nil
	},
}

func init() {
	journalAddCmd.Flags().StringArrayVarP(&journalGratitude, "gratitude", "g", nil, "something you are grateful for (repeatable)")
	journalListCmd.Flags().IntVarP(&journalLimit, "limit", "n", wellness.DefaultLimit, "maximum number of entries")

	journalCmd.AddCommand(journalAddCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalPromptCmd)

	rootCmd.AddCommand(journalCmd)
}
