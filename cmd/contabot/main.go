package main

import (
	"os"

	"github.com/contabot-dev/contabot/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
