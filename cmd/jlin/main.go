package main

import (
	"os"

	"github.com/jslinters/jlin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
