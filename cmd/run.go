package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizy/internal/app"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, opts app.Options) error {
	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.close()

	svc, err := d.services(cmd.Context())
	if err != nil {
		return err
	}
	if svc.Offline {
		fmt.Fprintln(os.Stderr, "LLM provider not configured; playing from the offline question bank.")
	}

	opts.Services = svc
	return app.Run(opts)
}
