package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewEndpointsCmd creates the endpoints command
func NewEndpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the API gateway endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEndpoints(cmd.Context())
		},
	}
}

func runEndpoints(_ context.Context, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}

	reg := o.client.Endpoints()
	fmt.Fprintf(o.out, "Gateway: %s\n\n", reg.BaseURL)

	w := tabwriter.NewWriter(o.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tURL")
	fmt.Fprintln(w, "────\t───")
	for _, e := range reg.Entries() {
		fmt.Fprintf(w, "%s\t%s\n", e.Name, e.URL)
	}
	return w.Flush()
}
