package main

import (
	"os"

	"github.com/karavan-market/karavan/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
