package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serveCmd := newServeCmd()

	rootCmd := &cobra.Command{
		Use:   "posauth",
		Short: "Shop identity and credit notes for Shopify POS extensions",
		Long: "posauth resolves the shop behind POS UI extension and embedded admin requests " +
			"and serves that shop's credit notes. Without a subcommand it runs the HTTP service.",
		Example: `  # Run the service (configuration comes from the environment)
  SHOPIFY_API_KEY=... SHOPIFY_API_SECRET=... posauth

  # What does this session token say, and is it about to expire?
  posauth token inspect eyJhbGciOiJIUzI1NiJ9...

  # Register a shop so credit notes can be issued for it
  posauth shop install acme --access-token shpat_... --scopes read_customers,write_customers`,
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}

	rootCmd.AddCommand(serveCmd, newTokenCmd(), newShopCmd())
	return rootCmd
}
