package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/storekit/storefront/internal/api"
	"github.com/storekit/storefront/internal/config"
)

func main() {
	cfg := config.Load()
	log := config.NewLogger(cfg)
	client := api.NewClient(api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.HTTPTimeout,
		Logger:  log,
	})

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Retail storefront client: catalog, cart, checkout and store management",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newShopCmd(client, log),
		newItemsCmd(client, log),
		newInventoryCmd(client, log),
		newOrdersCmd(client),
		newServeCmd(log),
	)

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
