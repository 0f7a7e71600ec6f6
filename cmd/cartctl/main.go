// Command cartctl drives a session cart from the shell. Every invocation
// rehydrates the cart from session storage, applies one operation and exits,
// the way a page reload would.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
