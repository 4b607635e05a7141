// Command answerkey computes answer keys for batches of formula questions and
// evaluates formulas from the command line.
package main

import (
	"os"
)

func main() {
	root, a := newRootCmd()
	if err := a.execute(root); err != nil {
		os.Exit(1)
	}
}
