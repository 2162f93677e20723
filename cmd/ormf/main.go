// ormf - OpenRouter model filter
package main

import (
	"os"

	"github.com/sonemaro/ormf/internal/ui"
)

func main() {
	if err := Execute(); err != nil {
		ui.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
