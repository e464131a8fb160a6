// Command veracite is the retrieval and citation enforcement CLI.
package main

import (
	"fmt"
	"os"

	"github.com/veracite-labs/veracite-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
