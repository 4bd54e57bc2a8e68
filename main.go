// envedit edits .env files in place, keeping their layout, and manages
// backups of them.
package main

import (
	"fmt"
	"os"

	"envedit/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
