// Package cli holds the output and terminal rendering helpers shared by the
// paz commands.
//
// Results are written as YAML (the default), JSON or raw text, optionally
// filtered through a jq expression first:
//
//	cli.Output(entries, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    Query:  ".[0].mood",
//	})
//
// Panel and Bar draw the bordered live views used by long-running commands
// such as "paz breathe run".
package cli
