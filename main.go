// Command cadbom builds a bolted bracket assembly, writes it as OpenSCAD,
// and prints its bill of materials.
package main

import (
	"os"

	"github.com/chazu/cadbom/cmd"
)

var version = "dev"

func main() {
	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
