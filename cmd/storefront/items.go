package main

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/storekit/storefront/internal/admin"
	"github.com/storekit/storefront/internal/api"
)

func newItemsCmd(client *api.Client, log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Manage catalog items",
	}
	cmd.AddCommand(
		newItemsListCmd(client, log),
		newItemsAddCmd(client, log),
		newItemsUpdateCmd(client),
		newItemsDeleteCmd(client),
	)
	return cmd
}

func newItemsListCmd(client *api.Client, log *logrus.Logger) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items, optionally filtered by name or category",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := admin.NewItemManager(client, log)
			if err := m.Load(cmd.Context()); err != nil {
				return err
			}
			m.SetSearch(search)
			for _, item := range m.Items() {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-20s %-12s Rs. %-10s %d in stock\n",
					item.ID, item.Name, item.Category, item.Price, item.Stock)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by name or category")
	return cmd
}

func newItemsAddCmd(client *api.Client, log *logrus.Logger) *cobra.Command {
	var form admin.ItemForm
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new item",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := admin.NewItemManager(client, log)
			if err := m.Load(cmd.Context()); err != nil {
				return err
			}
			if form.Category == "" {
				form.Category = admin.Categories[0]
			}
			m.SetForm(form)
			if err := m.Submit(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "item created")
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "item name")
	cmd.Flags().StringVar(&form.Description, "description", "", "item description")
	cmd.Flags().StringVar(&form.Price, "price", "", "unit price")
	cmd.Flags().StringVar(&form.Category, "category", "", "category")
	cmd.Flags().StringVar(&form.Image, "image", "", "image URL")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newItemsUpdateCmd(client *api.Client) *cobra.Command {
	var (
		name, description, category, image string
		price                              float64
	)
	cmd := &cobra.Command{
		Use:   "update <item id>",
		Short: "Patch fields of an existing item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("item id must be a number: %w", err)
			}

			var patch api.ItemPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("price") {
				patch.Price = &price
			}
			if cmd.Flags().Changed("category") {
				patch.Category = &category
			}
			if cmd.Flags().Changed("image") {
				patch.Image = &image
			}

			item, err := client.UpdateItem(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s (Rs. %s)\n", item.Name, item.Price)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "item name")
	cmd.Flags().StringVar(&description, "description", "", "item description")
	cmd.Flags().Float64Var(&price, "price", 0, "unit price")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&image, "image", "", "image URL")
	return cmd
}

func newItemsDeleteCmd(client *api.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <item id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("item id must be a number: %w", err)
			}
			if err := client.DeleteItem(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "item deleted")
			return nil
		},
	}
}
