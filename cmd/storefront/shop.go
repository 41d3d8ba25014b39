package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/storekit/storefront/internal/api"
	"github.com/storekit/storefront/internal/cart"
	"github.com/storekit/storefront/internal/catalog"
	"github.com/storekit/storefront/internal/checkout"
	"github.com/storekit/storefront/internal/domain"
)

func newShopCmd(client *api.Client, log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "Browse the catalog, fill a cart and place an order",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &shopSession{
				client: client,
				log:    log,
				in:     bufio.NewScanner(cmd.InOrStdin()),
				out:    cmd.OutOrStdout(),
			}
			return s.run(cmd.Context())
		},
	}
}

// shopSession is one browsing session: a catalog view, the session cart and
// the checkout hand-off.
type shopSession struct {
	client *api.Client
	log    *logrus.Logger
	store  *catalog.Store
	cart   *cart.Cart
	in     *bufio.Scanner
	out    io.Writer
}

func (s *shopSession) run(ctx context.Context) error {
	s.store = catalog.New(s.client, s.log)
	s.cart = cart.New(s.store.Lookup)

	if err := s.store.Refresh(ctx); err != nil {
		// Degrade to an empty catalog; the session can retry with `list`.
		fmt.Fprintln(s.out, "Could not load the catalog. Use 'list' to retry.")
	}
	s.printCatalog()
	fmt.Fprintln(s.out, "Commands: list, add <id>, inc <id>, dec <id>, rm <id>, cart, clear, checkout, quit")

	for {
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			return s.in.Err()
		}
		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			continue
		}

		switch cmd := fields[0]; cmd {
		case "list":
			if err := s.store.Refresh(ctx); err != nil {
				fmt.Fprintln(s.out, "Could not load the catalog.")
			}
			s.printCatalog()
		case "add", "inc":
			s.withProductID(fields, func(id int64) {
				if err := s.cart.Add(id); err != nil {
					fmt.Fprintln(s.out, err)
					return
				}
				if name, ok := s.cart.Notice(); ok {
					fmt.Fprintf(s.out, "%s added to cart!\n", name)
				}
			})
		case "dec":
			s.withProductID(fields, func(id int64) { s.cart.Decrement(id) })
		case "rm":
			s.withProductID(fields, func(id int64) { s.cart.Remove(id) })
		case "cart":
			s.printCart()
		case "clear":
			s.cart.Clear()
		case "checkout":
			if err := s.runCheckout(ctx); err != nil {
				return err
			}
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(s.out, "unknown command %q\n", cmd)
		}
	}
}

func (s *shopSession) withProductID(fields []string, fn func(int64)) {
	if len(fields) < 2 {
		fmt.Fprintln(s.out, "usage: "+fields[0]+" <product id>")
		return
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, "product id must be a number")
		return
	}
	fn(id)
}

func (s *shopSession) printCatalog() {
	products := s.store.Products()
	if len(products) == 0 {
		fmt.Fprintln(s.out, "No products available.")
		return
	}
	fmt.Fprintln(s.out, "Available Products:")
	for _, p := range products {
		stock := fmt.Sprintf("%d in stock", p.Stock)
		if p.Stock == 0 {
			stock = "Out of Stock"
		} else if p.Stock <= 5 {
			stock += " (Few Left)"
		}
		marker := ""
		if qty := s.cart.QuantityOf(p.ID); qty > 0 {
			marker = fmt.Sprintf("  [in cart: %d]", qty)
		}
		fmt.Fprintf(s.out, "  %3d  %-20s Rs. %-10s %s%s\n", p.ID, p.Name, p.Price, stock, marker)
	}
}

func (s *shopSession) printCart() {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(s.out, "Cart is empty.")
		return
	}
	for _, line := range lines {
		p, ok := s.store.Lookup(line.ProductID)
		if !ok {
			continue
		}
		fmt.Fprintf(s.out, "  %-20s x%d  Rs. %s\n", p.Name, line.Quantity, p.Price)
	}
	if total, err := s.cart.Total(); err == nil {
		fmt.Fprintf(s.out, "%d items selected | Total: Rs. %s\n", s.cart.Len(), total)
	}
}

// runCheckout hands the cart snapshot to a checkout coordinator and drives
// the shipping form until the order succeeds or the user gives up.
func (s *shopSession) runCheckout(ctx context.Context) error {
	snap, err := s.cart.Snapshot()
	if err != nil {
		return err
	}

	co, err := checkout.New(snap, s.client, s.log)
	if errors.Is(err, domain.ErrEmptyCart) {
		// The guard redirects straight back to the catalog view.
		fmt.Fprintln(s.out, "Cart is empty, returning to catalog.")
		s.printCatalog()
		return nil
	}
	if err != nil {
		return err
	}

	var details domain.CustomerDetails
	for {
		details = s.promptDetails(details)

		conf, err := co.Submit(ctx, details)
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			fmt.Fprintf(s.out, "Invalid input, %s %s.\n", vErr.Field, vErr.Reason)
			continue
		}
		if err != nil {
			fmt.Fprintf(s.out, "Error: %s\n", co.Failure())
			if !s.confirm("Try again? [y/N] ") {
				return nil
			}
			continue
		}

		s.printConfirmation(conf)
		s.cart.Clear()
		s.printCatalog()
		return nil
	}
}

// promptDetails collects the shipping form, keeping previously entered
// values as defaults so a failed submit never loses them.
func (s *shopSession) promptDetails(prev domain.CustomerDetails) domain.CustomerDetails {
	return domain.CustomerDetails{
		Name:    s.prompt("Full Name", prev.Name),
		Phone:   s.prompt("Phone Number", prev.Phone),
		Email:   s.prompt("Email Address", prev.Email),
		Address: s.prompt("Shipping Address", prev.Address),
	}
}

func (s *shopSession) prompt(label, fallback string) string {
	if fallback != "" {
		fmt.Fprintf(s.out, "%s [%s]: ", label, fallback)
	} else {
		fmt.Fprintf(s.out, "%s: ", label)
	}
	if !s.in.Scan() {
		return fallback
	}
	text := strings.TrimSpace(s.in.Text())
	if text == "" {
		return fallback
	}
	return text
}

func (s *shopSession) confirm(label string) bool {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(s.in.Text()))
	return answer == "y" || answer == "yes"
}

func (s *shopSession) printConfirmation(conf checkout.Confirmation) {
	fmt.Fprintln(s.out, "Order Placed Successfully!")
	fmt.Fprintf(s.out, "Order ID: #%s\n", conf.OrderID)
	fmt.Fprintf(s.out, "Date: %s\n", conf.PlacedAt.Format("2 Jan 2006 15:04"))
	fmt.Fprintf(s.out, "Ship to: %s, %s (%s, %s)\n", conf.Customer.Name, conf.Customer.Address, conf.Customer.Phone, conf.Customer.Email)
	for _, line := range conf.Lines {
		fmt.Fprintf(s.out, "  %-20s x%d  Rs. %s\n", line.Name, line.Quantity, line.Subtotal)
	}
	fmt.Fprintf(s.out, "Total: Rs. %s\n", conf.Total)
}
