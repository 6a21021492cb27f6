// Command badger runs parameterized SQL from the command line.
package main

import (
	"os"

	"github.com/satishbabariya/badger-go/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
