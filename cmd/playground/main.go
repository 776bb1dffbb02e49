// Command playground runs behavior scenes.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/behaviors/cmd/playground/cmd"
	"github.com/go-drift/behaviors/pkg/errors"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer errors.RecoverWithCallback("playground.main", func(any) { code = 2 })

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
