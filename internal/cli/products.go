package cli

import (
	"github.com/spf13/cobra"
)

// NewProductsCommand creates the products command.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := rootOpts.client().Products(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				return writeJSON(out, products)
			}
			rows := [][]string{{"BARCODE", "SKU", "NAME", "PRICE"}}
			for _, p := range products {
				rows = append(rows, []string{p.Barcode, p.SKU, p.Name, money(p.Price)})
			}
			return table(out, rows)
		},
	}
}
