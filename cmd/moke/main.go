// Command moke analyses magneto-optic Kerr effect hysteresis
// measurements: instrument-log parsing, loop centres, calibration fits,
// feature extraction and figure rendering.
package main

import (
	"fmt"
	"os"

	"github.com/kerrlab/moke/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
