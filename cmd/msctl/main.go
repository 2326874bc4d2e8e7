package main

import (
	"os"

	"github.com/msctl-dev/msctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
