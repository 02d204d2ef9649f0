// Command simplec is the compiler front end for Simple, a small
// statically-typed systems language.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/simple-lang/cmd/simplec/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
