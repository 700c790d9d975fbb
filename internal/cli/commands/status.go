package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rentalhub/rentalhub/internal/routes"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether you are signed in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context())
		},
	}
}

func runStatus(ctx context.Context, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}

	sess := o.session()
	if !sess.Authenticated(ctx) {
		fmt.Fprintln(o.out, "Not signed in.")
		fmt.Fprintln(o.out, "\nSign in with: rentalhub login")
		return nil
	}

	fmt.Fprintln(o.out, "Signed in")
	if userID := sess.UserID(ctx); userID != "" {
		fmt.Fprintf(o.out, "  User ID: %s\n", userID)
	}
	return nil
}

// NewNavigateCmd creates the navigate command
func NewNavigateCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "navigate <path>",
		Short: "Show where the app would take you for a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNavigate(cmd.Context(), args[0], from)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Page you are navigating from")

	return cmd
}

func runNavigate(ctx context.Context, to, from string, opts ...Option) error {
	if !strings.HasPrefix(to, "/") {
		return fmt.Errorf("path must start with /: %q", to)
	}

	o, err := newOptions(opts)
	if err != nil {
		return err
	}

	decision, known := o.guard.Navigate(to, from, o.session().Authenticated(ctx))

	switch {
	case decision.Action == routes.Redirect:
		fmt.Fprintf(o.out, "%s -> redirect to %s\n", to, decision.Target)
	default:
		fmt.Fprintf(o.out, "%s -> proceed\n", to)
	}
	if !known {
		fmt.Fprintln(o.out, "  (not a page of the app)")
	}
	return nil
}
