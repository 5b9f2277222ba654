package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pazhealth/paz/cmd/paz/internal/config"
	"github.com/pazhealth/paz/pkg/cli"
)

var (
	// Global flags
	verbose      bool
	contextName  string
	formatOutput string
	outputFile   string
	queryExpr    string

	// Global configuration (loaded at init time)
	globalConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "paz",
	Short: "Mood tracking, breathing, healing sounds and a companion to talk to",
	Long: `paz - a small wellness toolkit for the terminal.

  breathe    guided breathing with an ambient loop
  tone       healing frequencies and binaural beats
  sounds     ambient sound library
  mood       daily mood check-ins
  journal    journal entries with gratitude and daily prompts
  insights   weekly mood summary and streak
  chat       talk with the companion (Gemini or OpenAI)
  profile    language, theme and other preferences

Configuration is stored in the OS config directory, or in $PAZ_CONFIG_DIR:
  macOS:   ~/Library/Application Support/paz/
  Linux:   ~/.config/paz/
  Windows: %AppData%/paz/

Examples:
  # Create a context and configure the companion
  paz config add-context home
  paz config use-context home
  paz config set home gemini api_key YOUR_KEY

  # Check in and breathe
  paz mood add 4 "slept well"
  paz breathe run relaxing`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context to use (default: current context)")
	rootCmd.PersistentFlags().StringVarP(&formatOutput, "format", "o", "yaml", "output format: yaml, json, raw")
	rootCmd.PersistentFlags().StringVar(&outputFile, "output", "", "write output to a file")
	rootCmd.PersistentFlags().StringVarP(&queryExpr, "query", "q", "", "jq expression applied to the output")
}

func setupLogging() {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))
}

// configLoadErr stores the error from config.Load() for deferred reporting.
var configLoadErr error

func initConfig() {
	cfg, err := config.Load()
	if err != nil {
		// Commands that need config report it through GetConfig, so
		// 'paz version' still works without a home directory.
		configLoadErr = err
		return
	}
	configLoadErr = nil
	globalConfig = cfg
}

// GetConfig returns the global configuration.
// Returns an error if the config could not be loaded (e.g., HOME not set).
func GetConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

// printResult writes v in the --format chosen on the command line.
func printResult(v any) error {
	format, err := cli.ParseFormat(formatOutput)
	if err != nil {
		return err
	}
	return cli.Output(v, cli.OutputOptions{
		Format: format,
		File:   outputFile,
		Query:  queryExpr,
	})
}
