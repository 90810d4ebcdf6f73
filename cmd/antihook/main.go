package main

import (
	"os"

	"github.com/antihub/antihook/cmd/antihook/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
