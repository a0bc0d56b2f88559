package main

import (
	"fmt"
	"os"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/spf13/cobra"
)

var envFiles []string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   constants.AppName,
		Short: "Server-rendered product catalog",
		Long: `storefront serves the product list and product detail screens as HTML,
fetching products from the remote catalog API on each visit.

Run without a subcommand to start the HTTP server.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "env file to load before reading the environment (repeatable, default .env)")

	root.AddCommand(newServeCmd(), newCheckCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
