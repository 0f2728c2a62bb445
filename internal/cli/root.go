// Package cli implements the labelforge command-line interface.
//
// This package provides commands for serving the rendering API and for
// running one-shot batch renders from local files. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
//   - serve: run the HTTP rendering API
//   - render: render a batch (or a single preview row) from files on disk
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/curiosity110/LabelForge/pkg/buildinfo"
)

// Execute runs the labelforge CLI and returns an error if any command
// fails.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "labelforge",
		Short:        "LabelForge renders spreadsheet rows onto background images",
		Long:         `LabelForge turns a spreadsheet plus one or more background images into a batch of labeled raster images, packaged as a ZIP archive.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newServeCmd())
	root.AddCommand(newRenderCmd())

	return root.ExecuteContext(ctx)
}
