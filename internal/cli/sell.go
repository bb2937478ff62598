package cli

import (
	"fmt"
	"strconv"
	"time"

	"zenith-pos/internal/domain"
	"zenith-pos/internal/pos"

	"github.com/spf13/cobra"
)

// SellOptions holds flags for the sell command.
type SellOptions struct {
	*RootOptions
	Name     string
	Password string
	Barcodes []string
	TaxRate  float64
}

// NewSellCommand creates the sell command.
func NewSellCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SellOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Ring up a sale by barcode and record it",
		Long: `Ring up a sale by barcode and record it.

Each --barcode adds one unit. With --name and --password the sale is
attributed to that operator; otherwise it is recorded anonymously.

Example:
  posctl sell --name Cashier --password password123 --barcode 111111 --barcode 222222`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSell(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "operator name")
	cmd.Flags().StringVar(&opts.Password, "password", "", "operator password")
	cmd.Flags().StringArrayVar(&opts.Barcodes, "barcode", nil, "barcode to scan (repeatable)")
	cmd.Flags().Float64Var(&opts.TaxRate, "tax-rate", pos.DefaultTaxRate, "sales tax rate")
	_ = cmd.MarkFlagRequired("barcode")

	return cmd
}

func runSell(cmd *cobra.Command, opts *SellOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	client := opts.client()

	session := pos.NewSession(client)
	if opts.Name != "" {
		if _, err := session.Login(ctx, opts.Name, opts.Password); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
	}

	products, err := client.Products(ctx)
	if err != nil {
		return err
	}

	cart := pos.NewCart(opts.TaxRate)
	cart.SetProducts(products)

	text := opts.Format == "text"
	cancel := cart.Subscribe(func(s pos.Snapshot) {
		if text && len(s.Items) > 0 {
			fmt.Fprintf(out, "  running total %s\n", s.Totals.Total.StringFixed(2))
		}
	})
	defer cancel()

	for _, barcode := range opts.Barcodes {
		p, ok := cart.ProductByBarcode(barcode)
		if !ok {
			return fmt.Errorf("%w: unknown barcode %q", domain.ErrNotFound, barcode)
		}
		if text {
			fmt.Fprintf(out, "scanned %s %s\n", p.Name, money(p.Price))
		}
		cart.AddProduct(p)
	}

	totals := cart.Totals()
	tx, err := pos.Checkout(ctx, cart, session, client)
	if err != nil {
		return err
	}

	if !text {
		return writeJSON(out, tx)
	}
	return printReceipt(cmd, tx, totals)
}

func printReceipt(cmd *cobra.Command, tx domain.Transaction, totals pos.Totals) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Transaction %s\n", tx.ID)
	fmt.Fprintf(out, "%s\n", tx.Time().Local().Format(time.DateTime))
	if tx.CashierName != "" {
		fmt.Fprintf(out, "Cashier %s\n", tx.CashierName)
	}

	rows := [][]string{{"QTY", "ITEM", "AMOUNT"}}
	for _, line := range tx.Items {
		rows = append(rows, []string{strconv.Itoa(line.Quantity), line.Name, money(line.LineTotal())})
	}
	rows = append(rows,
		[]string{"", "Subtotal", totals.Subtotal.StringFixed(2)},
		[]string{"", "Tax", totals.Tax.StringFixed(2)},
		[]string{"", "Total", totals.Total.StringFixed(2)},
	)
	return table(out, rows)
}
