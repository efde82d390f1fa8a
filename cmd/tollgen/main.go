// Command tollgen generates linked synthetic toll transaction data.
package main

import (
	"os"

	"github.com/leapstack-labs/tollgen/internal/cli"
)

func main() {
	os.Exit(exitCode(cli.Execute()))
}

// exitCode maps a command error to the process exit status. Connection,
// schema and transaction failures all exit 1.
func exitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}
