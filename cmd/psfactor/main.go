// Command psfactor factors a composite integer with the Pollard-Strassen
// method. All the work happens in internal/app; main only wires the standard
// streams and turns the outcome into a process exit code.
package main

import (
	"context"
	"os"

	"github.com/agbru/psfactor/internal/app"
	apperrors "github.com/agbru/psfactor/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		os.Exit(apperrors.ExitSuccess)
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
