// Command primeoracle answers primality queries from arguments or stdin,
// sharing one memoizing oracle across all of them.
//
// Usage:
//
//	primeoracle 97 91 104729
//	seq 1 1000 | primeoracle --stats
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
