package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/creditpos/internal/posauth/domain"
	"github.com/aussiebroadwan/creditpos/internal/posauth/identity"
	"github.com/aussiebroadwan/creditpos/internal/posauth/store"
	"github.com/aussiebroadwan/creditpos/pkg/cryptox"
	"github.com/pkg/errors"
)

// ShopService tracks installed shops. Offline access tokens are sealed
// before they reach the store and only opened on demand.
type ShopService struct {
	Store  store.Store
	Sealer *cryptox.Sealer
	Logger *slog.Logger
}

func NewShopService(st store.Store, sealer *cryptox.Sealer, logger *slog.Logger) *ShopService {
	return &ShopService{Store: st, Sealer: sealer, Logger: logger}
}

// Install records (or refreshes) a shop's offline access token and scopes.
func (s *ShopService) Install(ctx context.Context, shopDomain, accessToken string, scopes []string) (domain.Shop, error) {
	shop, err := identity.NormalizeShopDomain(shopDomain)
	if err != nil {
		return domain.Shop{}, ErrInvalidShop
	}

	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return domain.Shop{}, ErrMissingAccessToken
	}

	sealed, err := s.Sealer.Seal([]byte(accessToken))
	if err != nil {
		return domain.Shop{}, errors.Wrap(err, "could not seal access token")
	}

	if err := s.Store.Shops().UpsertShop(ctx, domain.Shop{
		Domain:               shop,
		AccessTokenEncrypted: sealed,
		Scopes:               scopes,
	}); err != nil {
		return domain.Shop{}, errors.Wrapf(err, "could not save shop %s", shop)
	}

	s.Logger.Info("shop installed", "shop", shop, "scopes", len(scopes))

	installed, err := s.Store.Shops().GetShop(ctx, shop)
	if err != nil {
		return domain.Shop{}, errors.WithStack(err)
	}
	return installed, nil
}

// Get returns an installed shop.
func (s *ShopService) Get(ctx context.Context, shopDomain string) (domain.Shop, error) {
	shop, err := s.Store.Shops().GetShop(ctx, shopDomain)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Shop{}, ErrShopNotInstalled
	}
	if err != nil {
		return domain.Shop{}, errors.WithStack(err)
	}
	return shop, nil
}

// IsInstalled reports whether shopDomain has installed the app.
func (s *ShopService) IsInstalled(ctx context.Context, shopDomain string) (bool, error) {
	_, err := s.Get(ctx, shopDomain)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrShopNotInstalled):
		return false, nil
	default:
		return false, err
	}
}

// AccessToken opens the sealed offline access token for shopDomain.
func (s *ShopService) AccessToken(ctx context.Context, shopDomain string) (string, error) {
	shop, err := s.Get(ctx, shopDomain)
	if err != nil {
		return "", err
	}

	token, err := s.Sealer.Open(shop.AccessTokenEncrypted)
	if err != nil {
		return "", errors.Wrapf(err, "could not open access token for %s", shopDomain)
	}
	return string(token), nil
}

// List returns every installed shop.
func (s *ShopService) List(ctx context.Context) ([]domain.Shop, error) {
	shops, err := s.Store.Shops().ListShops(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return shops, nil
}

// Uninstall forgets a shop and its credit notes.
func (s *ShopService) Uninstall(ctx context.Context, shopDomain string) error {
	shop, err := identity.NormalizeShopDomain(shopDomain)
	if err != nil {
		return ErrInvalidShop
	}

	err = s.Store.Shops().DeleteShop(ctx, shop)
	if errors.Is(err, store.ErrNotFound) {
		return ErrShopNotInstalled
	}
	if err != nil {
		return errors.WithStack(err)
	}

	s.Logger.Info("shop uninstalled", "shop", shop)
	return nil
}
