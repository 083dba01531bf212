package sqlite

import (
	"context"
	"strings"

	"github.com/aussiebroadwan/creditpos/internal/posauth/domain"
	"github.com/aussiebroadwan/creditpos/internal/posauth/store"
	"github.com/aussiebroadwan/creditpos/internal/posauth/store/drivers/sqlite/gen"
)

type shopsRepo struct {
	q *gen.Queries
}

func (r *shopsRepo) UpsertShop(ctx context.Context, s domain.Shop) error {
	return r.q.UpsertShop(ctx, gen.UpsertShopParams{
		Domain:               s.Domain,
		AccessTokenEncrypted: s.AccessTokenEncrypted,
		Scopes:               strings.Join(s.Scopes, ","),
	})
}

func (r *shopsRepo) GetShop(ctx context.Context, shopDomain string) (domain.Shop, error) {
	row, err := r.q.GetShop(ctx, shopDomain)
	if err != nil {
		return domain.Shop{}, mapNotFound(err)
	}
	return mapShop(row), nil
}

func (r *shopsRepo) ListShops(ctx context.Context) ([]domain.Shop, error) {
	rows, err := r.q.ListShops(ctx)
	if err != nil {
		return nil, err
	}

	shops := make([]domain.Shop, len(rows))
	for i, row := range rows {
		shops[i] = mapShop(row)
	}
	return shops, nil
}

func (r *shopsRepo) DeleteShop(ctx context.Context, shopDomain string) error {
	n, err := r.q.DeleteShop(ctx, shopDomain)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
