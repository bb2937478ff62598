package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the sales report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := rootOpts.client().Report(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rootOpts.Format == "json" {
				return writeJSON(out, summary)
			}

			fmt.Fprintf(out, "Revenue      %s\n", money(summary.TotalRevenue))
			fmt.Fprintf(out, "Sales        %d\n", summary.TotalSales)
			fmt.Fprintf(out, "Items sold   %d\n", summary.TotalItemsSold)
			fmt.Fprintf(out, "Average sale %s\n", money(summary.AverageSale))
			fmt.Fprintf(out, "Median sale  %s\n", money(summary.MedianSale))
			if len(summary.RevenueByDay) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			rows := [][]string{{"DATE", "SALES", "REVENUE"}}
			for _, d := range summary.RevenueByDay {
				rows = append(rows, []string{d.Date, strconv.Itoa(d.Sales), money(d.Revenue)})
			}
			return table(out, rows)
		},
	}
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the transaction history as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return rootOpts.client().Export(cmd.Context(), w)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write CSV to file instead of stdout")

	return cmd
}
