package main

import (
	"context"
	"fmt"

	configs "github.com/Payphone-Digital/storefront/config"
	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/pkg/logger"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Fetch the product collection once and report the result",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	config, err := configs.LoadConfig(envFiles...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := newCatalogClient(config, logger.GetLogger())
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), config.Catalog.Timeout)
	defer cancel()

	products, err := client.ListProducts(ctx, model.DefaultSortOrder)
	if err != nil {
		return fmt.Errorf("catalog %s unreachable: %w", config.Catalog.BaseURL, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "catalog %s ok: %d products\n", config.Catalog.BaseURL, len(products))
	return nil
}
