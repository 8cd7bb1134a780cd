// Tempo plays auto-advancing step timelines in the terminal.
//
// Usage:
//
//	tempo <command> [flags]
//
// Commands:
//
//	play       Play decks in the terminal
//	import     Store decks from YAML files
//	decks      List stored decks
//	remove     Delete a stored deck
//	lang       Show or set the preferred language
//	coverage   Report translation coverage for a deck
//	init       Write a default config file
//	version    Print version information
package main

import (
	"os"

	"github.com/Mr-Dark-debug/tempo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
