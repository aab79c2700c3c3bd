// Command repctl is the operator CLI: offline scoring of review fixtures
// and seeding fixtures into MySQL.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
