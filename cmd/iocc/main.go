package main

import (
	"os"

	"iocc/cmd/iocc/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
