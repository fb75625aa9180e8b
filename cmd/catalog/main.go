// Command catalog browses the library catalog from a terminal.
//
// It loads the same seed data the server uses, from the placeholder REST service or
// from a local JSON file, and prints one catalog page, its pager and the stats.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
