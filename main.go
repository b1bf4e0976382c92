package main

import (
	"os"

	"github.com/raddesk-health/raddesk-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
