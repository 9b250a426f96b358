// Command zest is a thin launcher that forwards to the zest daemon binary.
// It locates the binary (bundled _bin directory, PATH, then ~/.local/bin)
// and replaces the current process image with it, passing all arguments
// through unmodified.
package main

import (
	"fmt"
	"os"

	zest "github.com/praveer13/zest"
)

func main() {
	binary, err := zest.LocateBinary()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: zest binary not found")
		for _, loc := range zest.SearchLocations() {
			fmt.Fprintf(os.Stderr, "  looked in: %s\n", loc)
		}
		os.Exit(1)
	}

	if err := zest.Passthrough(binary, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to exec %s: %v\n", binary, err)
		os.Exit(1)
	}
}
