// Package main is the entry point for the stencil CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/grimwm/stencil/internal/cmd"
	oerrors "github.com/grimwm/stencil/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Check if the error contains an ExitError with a specific code
		var exitErr *oerrors.ExitError
		if errors.As(err, &exitErr) {
			// Only print if the command layer hasn't already printed it
			if !exitErr.Printed {
				fmt.Fprintln(os.Stderr, err)
			}
			stop()
			os.Exit(exitErr.Code)
		}
		// Other errors carry their code in their sentinels
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(oerrors.ExitCodeFromError(err))
	}
}
