// main is the entry point for the pulse CLI.
package main

import (
	"fmt"
	"os"

	"github.com/communitypulse/pulse/cmd"
	"github.com/communitypulse/pulse/internal/iocache"
)

func main() {
	defer iocache.CloseStores()

	err := cmd.Execute()

	if perr := cmd.StopProfiling(); perr != nil {
		fmt.Fprintln(os.Stderr, "Warning: failed to stop profiling:", perr)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
