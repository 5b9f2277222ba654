// Package main is the entry point for the paz CLI.
//
// Usage:
//
//	paz [flags] <command> [subcommand] [args]
//
// Commands:
//
//	config     - Configuration management (contexts, services)
//	breathe    - Guided breathing exercises
//	tone       - Healing frequencies and binaural beats
//	sounds     - Ambient sound library
//	mood       - Mood check-ins
//	journal    - Journal entries and daily prompts
//	insights   - Weekly mood summary
//	chat       - Talk with the companion
//	profile    - Preferences
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/pazhealth/paz/cmd/paz/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
