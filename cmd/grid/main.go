// Command grid edits typed grid cells from the command line.
package main

import (
	"os"

	"github.com/mesh-intelligence/grid/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
