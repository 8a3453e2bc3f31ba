package main

import (
	"fmt"
	"os"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/command"
)

// version is overwritten at build time using -ldflags.
var version = "dev"

func main() {
	if err := command.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
