// Package main implements hfdump - host-side decoding of hard fault dump
// region images pulled off a target (for example with a debug probe's
// memory dump command).
package main

import (
	"os"

	"github.com/bspguy/hardfault-handler/cmd/hfdump/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
