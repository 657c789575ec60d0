package main

import (
	"os"

	"github.com/toximcp/toximcp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
