package main

import (
	"fmt"
	"os"

	"github.com/JohnBasrai/aws-lambda-action-filter/internal/cli"
)

func main() {
	// Cobra handles parsing flags and executing the appropriate command's
	// Run function; everything interesting lives in internal/cli.
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
