package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aussiebroadwan/creditpos/internal/posauth/app"
	"github.com/aussiebroadwan/creditpos/internal/posauth/identity"
	"github.com/aussiebroadwan/creditpos/pkg/cryptox"
	"github.com/aussiebroadwan/creditpos/pkg/jwtx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Work with Shopify session tokens",
	}
	tokenCmd.AddCommand(newTokenInspectCmd(), newTokenMintCmd())
	return tokenCmd
}

// tokenReport is what `token inspect` prints. Nothing in it is verified.
type tokenReport struct {
	Fingerprint string                 `json:"fingerprint"`
	Kind        jwtx.Kind              `json:"kind"`
	Header      *jwtx.Header           `json:"header,omitempty"`
	Shop        string                 `json:"shop,omitempty"`
	Subject     string                 `json:"subject,omitempty"`
	Audience    []string               `json:"audience,omitempty"`
	SessionID   string                 `json:"sessionId,omitempty"`
	Lifecycle   identity.LifecycleInfo `json:"lifecycle"`
	Error       string                 `json:"error,omitempty"`
}

func inspectToken(token string, now time.Time) tokenReport {
	report := tokenReport{
		Fingerprint: cryptox.FingerprintToken(token),
		Lifecycle:   identity.LifecycleAt(token, now),
	}

	st, err := jwtx.Inspect(token)
	if err != nil {
		report.Kind = jwtx.KindJWT
		report.Error = err.Error()
		return report
	}
	report.Kind = st.Kind
	if st.Kind != jwtx.KindJWT {
		return report
	}
	report.Header = &st.Header

	claims, err := jwtx.DecodePayload(token)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	if shop, err := identity.NormalizeShopDomain(claims.ShopURL()); err == nil {
		report.Shop = shop
	}
	report.Subject = claims.Subject
	report.Audience = claims.Audience
	report.SessionID = claims.SessionID()
	return report
}

func newTokenInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <token>",
		Short: "Decode a session token and report its lifecycle without verifying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), inspectToken(args[0], time.Now().UTC()))
		},
	}
}

func newTokenMintCmd() *cobra.Command {
	var (
		shop    string
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Sign a session token with SHOPIFY_API_SECRET, for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.Shopify.APISecret == "" {
				return errors.New("SHOPIFY_API_SECRET is required to mint tokens")
			}

			domain, err := identity.NormalizeShopDomain(shop)
			if err != nil {
				return err
			}

			claims := jwtx.NewSessionClaims(domain, cfg.Shopify.APIKey, subject, jwtx.NewJTI(), ttl, time.Now())
			token, err := jwtx.NewSignerHS256([]byte(cfg.Shopify.APISecret)).Sign(claims)
			if err != nil {
				return errors.Wrap(err, "could not sign token")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&shop, "shop", "", "Shop domain or handle (required)")
	cmd.Flags().StringVar(&subject, "user", "1", "Staff member id for the sub claim")
	cmd.Flags().DurationVar(&ttl, "ttl", jwtx.DefaultSessionTokenTTL, "Token lifetime")
	_ = cmd.MarkFlagRequired("shop")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
