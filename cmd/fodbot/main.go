// Copyright (c) 2026 FoDBot. All rights reserved.

// Command fodbot runs the FoDBot Discord bot and its maintenance tasks.
//
// # Commands
//
//	fodbot run                   Connect to Discord and serve reaction roles (default).
//	fodbot migrate               Apply ledger migrations and exit.
//	fodbot definitions validate  Load and validate the topic definition files.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fodbot:", err)
		os.Exit(1)
	}
}
