package main

import (
	"fmt"
	"os"

	"github.com/celestiaorg/whitebox/cmd/whitebox/commands"
	"github.com/celestiaorg/whitebox/internal/logger"
)

func main() {
	logger.InitializeAndConfigure()
	logger.SetOutput(os.Stderr)

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
