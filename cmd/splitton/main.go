package main

import (
	"os"

	"github.com/andreusxcarvalho/SplitTON/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
