package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/aussiebroadwan/creditpos/internal/posauth/app"
	"github.com/aussiebroadwan/creditpos/internal/posauth/service"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newShopCmd() *cobra.Command {
	shopCmd := &cobra.Command{
		Use:   "shop",
		Short: "Manage installed shops",
	}
	shopCmd.AddCommand(newShopInstallCmd(), newShopListCmd(), newShopUninstallCmd())
	return shopCmd
}

// withShops opens the configured database for the duration of fn.
func withShops(ctx context.Context, fn func(context.Context, *service.ShopService) error) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.Session.Secret == "" {
		return errors.New("POSAUTH_SESSION_SECRET is required to manage shops")
	}

	logger := app.NewLogger(cfg)
	db, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database", "error", err)
		}
	}()

	shops, err := app.NewShopService(db, []byte(cfg.Session.Secret), logger.With(slog.String("command", "shop")))
	if err != nil {
		return err
	}
	return fn(ctx, shops)
}

func newShopInstallCmd() *cobra.Command {
	var (
		accessToken string
		scopes      string
	)

	cmd := &cobra.Command{
		Use:   "install <shop>",
		Short: "Register a shop and store its offline access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withShops(cmd.Context(), func(ctx context.Context, shops *service.ShopService) error {
				var granted []string
				if scopes != "" {
					granted = strings.Split(scopes, ",")
				}
				shop, err := shops.Install(ctx, args[0], accessToken, granted)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "installed %s\n", shop.Domain)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&accessToken, "access-token", "", "Offline access token (required)")
	cmd.Flags().StringVar(&scopes, "scopes", "", "Comma separated granted scopes")
	_ = cmd.MarkFlagRequired("access-token")
	return cmd
}

func newShopListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed shops",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withShops(cmd.Context(), func(ctx context.Context, shops *service.ShopService) error {
				list, err := shops.List(ctx)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "SHOP\tSCOPES\tUPDATED")
				for _, s := range list {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Domain, strings.Join(s.Scopes, ","), s.UpdatedAt.Format("2006-01-02 15:04"))
				}
				return tw.Flush()
			})
		},
	}
}

func newShopUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <shop>",
		Short: "Forget a shop and delete its credit notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withShops(cmd.Context(), func(ctx context.Context, shops *service.ShopService) error {
				if err := shops.Uninstall(ctx, args[0]); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "uninstalled %s\n", args[0])
				return err
			})
		},
	}
}
