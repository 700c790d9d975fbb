package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rentalhub/rentalhub/internal/cli/commands"
	"github.com/rentalhub/rentalhub/internal/logger"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "rentalhub",
	Short: "Rentalhub - rent items from people near you",
	Long: `Rentalhub CLI - Browse the rental store and manage your orders.

Your sign-in state is kept in ~/.config/rentalhub/storage.json and checked
the same way the web app checks it before showing a page.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := os.Getenv("RENTALHUB_LOG_LEVEL")
		if level == "" {
			level = "warn"
		}
		logger.InitWriter(os.Stderr, level, "console")
	},
}

func init() {
	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rentalhub version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewSignupCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewStatusCmd())
	rootCmd.AddCommand(commands.NewNavigateCmd())
	rootCmd.AddCommand(commands.NewEndpointsCmd())
	rootCmd.AddCommand(commands.NewProductsCmd())
	rootCmd.AddCommand(commands.NewProductCmd())
	rootCmd.AddCommand(commands.NewShippingCmd())
	rootCmd.AddCommand(commands.NewConfirmCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
