package main

import (
	"os"

	"github.com/scoutlab/scout/cmd/scout/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
