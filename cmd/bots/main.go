package main

import (
	"os"

	"github.com/relvane/botsessions/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
