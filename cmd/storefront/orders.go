package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/storekit/storefront/internal/api"
)

func newOrdersCmd(client *api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "orders <customer id>",
		Short: "List the purchase history of a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := client.ListOrders(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No orders found.")
				return nil
			}
			for _, o := range orders {
				fmt.Fprintf(cmd.OutOrStdout(), "#%-8s Rs. %-10s %s\n",
					o.OrderID, o.TotalPrice, o.OrderedAt.Format("2 Jan 2006 15:04"))
			}
			return nil
		},
	}
}
