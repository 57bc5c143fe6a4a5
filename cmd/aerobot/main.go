package main

import (
	"os"

	"github.com/aeroproject/aerobot/cmd/aerobot/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
