// Command frenet maps points onto reference paths and back, plots their
// distance fields and manages a SQLite library of named paths.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
