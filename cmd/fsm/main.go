// Command fsm inspects state machine descriptions, lays them out,
// synthesizes their truth tables and generates code from them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
