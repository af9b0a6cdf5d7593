// Command fibtree computes a Fibonacci number by decomposing it into a tree
// of independent subproblems evaluated concurrently.
package main

import (
	"context"
	"os"

	"github.com/agbru/fibtree/internal/app"
	apperrors "github.com/agbru/fibtree/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
