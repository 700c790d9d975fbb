package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// ordersPage is the page the order commands stand in for
const ordersPage = "/orders"

// NewShippingCmd creates the shipping command
func NewShippingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shipping <order-id>",
		Short: "Show shipping status for an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShipping(cmd.Context(), args[0])
		},
	}
}

func runShipping(ctx context.Context, orderID string, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	if err := o.requirePage(ctx, ordersPage); err != nil {
		return err
	}

	info, err := o.client.GetShippingInfo(ctx, orderID)
	if err != nil {
		return err
	}

	fmt.Fprintf(o.out, "Order #%s\n", info.OrderID)
	fmt.Fprintf(o.out, "  Status:   %s\n", info.Status)
	if info.Carrier != "" || info.TrackingNumber != "" {
		fmt.Fprintf(o.out, "  Carrier:  %s\n", info.Carrier)
		fmt.Fprintf(o.out, "  Tracking: %s\n", info.TrackingNumber)
	}
	if info.LabelURL != "" {
		fmt.Fprintf(o.out, "  Label:    %s\n", info.LabelURL)
	}
	return nil
}

// NewConfirmCmd creates the confirm command
func NewConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <order-id>",
		Short: "Confirm an order and charge the renter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfirm(cmd.Context(), args[0])
		},
	}
}

func runConfirm(ctx context.Context, orderID string, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	if err := o.requirePage(ctx, ordersPage); err != nil {
		return err
	}

	fmt.Fprintf(o.out, "Confirming order #%s...\n", orderID)

	res, err := o.client.ConfirmOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to confirm order: %w", err)
	}

	fmt.Fprintln(o.out, "✓ Order confirmed")
	if res.Status != "" {
		fmt.Fprintf(o.out, "  Status:      %s\n", res.Status)
	}
	if res.TransactionID != "" {
		fmt.Fprintf(o.out, "  Transaction: %s\n", res.TransactionID)
	}
	return nil
}
