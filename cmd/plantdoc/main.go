package main

import (
	"os"

	"plantdoc/cmd/plantdoc/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
