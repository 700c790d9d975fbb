package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rentalhub/rentalhub/internal/routes"
)

// NewProductsCmd creates the products command
func NewProductsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"ls"},
		Short:   "List products in the rental store",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProducts(cmd.Context(), all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include products that are currently rented out")

	return cmd
}

func runProducts(ctx context.Context, all bool, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	if err := o.requirePage(ctx, routes.LandingPath); err != nil {
		return err
	}

	products, err := o.client.ListProducts(ctx)
	if err != nil {
		return err
	}

	shown := products[:0:0]
	for _, p := range products {
		if all || p.Availability {
			shown = append(shown, p)
		}
	}

	if len(shown) == 0 {
		fmt.Fprintln(o.out, "No products available.")
		return nil
	}

	w := tabwriter.NewWriter(o.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tCONDITION\tAVAILABLE")
	fmt.Fprintln(w, "──\t────\t─────\t─────────\t─────────")
	for _, p := range shown {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.1f\t%s\n",
			p.ProductID,
			p.ProductName,
			p.Price,
			p.ConditionScore,
			yesNo(p.Availability),
		)
	}
	return w.Flush()
}

// NewProductCmd creates the product command
func NewProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show a single product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProduct(cmd.Context(), args[0])
		},
	}
}

func runProduct(ctx context.Context, productID string, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	if err := o.requirePage(ctx, routes.LandingPath); err != nil {
		return err
	}

	p, err := o.client.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	fmt.Fprintf(o.out, "%s (#%s)\n", p.ProductName, p.ProductID)
	if p.ProductDesc != "" {
		fmt.Fprintf(o.out, "  %s\n", p.ProductDesc)
	}
	fmt.Fprintf(o.out, "  Price:      %.2f\n", p.Price)
	fmt.Fprintf(o.out, "  Item value: %.2f\n", p.ItemPrice)
	fmt.Fprintf(o.out, "  Condition:  %.1f\n", p.ConditionScore)
	fmt.Fprintf(o.out, "  Available:  %s\n", yesNo(p.Availability))
	fmt.Fprintf(o.out, "  Owner:      %s\n", p.UserID)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
