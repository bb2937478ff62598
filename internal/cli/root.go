// Package cli implements posctl, a terminal register that runs the cart
// engine locally and records sales through the API.
package cli

import (
	"fmt"
	"os"
	"slices"

	"zenith-pos/internal/apiclient"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server string
	Format string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

func (o *RootOptions) client() *apiclient.Client {
	return apiclient.New(o.Server)
}

// NewRootCommand creates the root command for posctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "posctl",
		Short: "Zenith POS terminal register",
		Long:  "posctl scans products into a local cart and records completed sales on a Zenith POS server.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	server := os.Getenv("POSCTL_SERVER")
	if server == "" {
		server = "http://localhost:8080"
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Server, "server", server, "API base URL (env POSCTL_SERVER)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewSellCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}
