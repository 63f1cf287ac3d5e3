// Package main provides the entry point for the amanlaunch CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/amanlaunch/cmd/amanlaunch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
