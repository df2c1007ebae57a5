// Package main is the entry point for sakanalert.
package main

import (
	"os"

	"github.com/selhaddad/sakanalert/cmd/sakanalert/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
