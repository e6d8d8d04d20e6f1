package main

import (
	"os"

	"github.com/adminkit/adminctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
