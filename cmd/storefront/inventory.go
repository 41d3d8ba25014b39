package main

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/storekit/storefront/internal/admin"
	"github.com/storekit/storefront/internal/api"
)

func newInventoryCmd(client *api.Client, log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inspect and adjust stock levels",
	}
	cmd.AddCommand(newInventoryListCmd(client, log), newInventorySetCmd(client, log))
	return cmd
}

func newInventoryListCmd(client *api.Client, log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List inventory records",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := admin.NewInventoryManager(client, log)
			if err := m.Load(cmd.Context()); err != nil {
				return err
			}
			for _, row := range m.Rows() {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-20s %-12s %d\n",
					row.Record.InventoryID,
					row.Record.Item.Name,
					admin.StockStatus(row.Record.Quantity),
					row.Record.Quantity)
			}
			return nil
		},
	}
}

func newInventorySetCmd(client *api.Client, log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "set <inventory id> <quantity>",
		Short: "Set the absolute quantity of an inventory record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("inventory id must be a number: %w", err)
			}

			m := admin.NewInventoryManager(client, log)
			if err := m.Load(cmd.Context()); err != nil {
				return err
			}
			if err := m.BeginEdit(id); err != nil {
				return err
			}
			if err := m.SetDraft(id, args[1]); err != nil {
				return err
			}
			if err := m.Save(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inventory %d set to %s\n", id, args[1])
			return nil
		},
	}
}
