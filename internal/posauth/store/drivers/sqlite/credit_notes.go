package sqlite

import (
	"context"

	"github.com/aussiebroadwan/creditpos/internal/posauth/domain"
	"github.com/aussiebroadwan/creditpos/internal/posauth/store/drivers/sqlite/gen"
)

type creditNotesRepo struct {
	q *gen.Queries
}

func (r *creditNotesRepo) CreateCreditNote(ctx context.Context, n domain.CreditNote) error {
	status := n.Status
	if status == "" {
		status = domain.CreditNoteActive
	}

	err := r.q.CreateCreditNote(ctx, gen.CreateCreditNoteParams{
		ID:         n.ID,
		Shop:       n.Shop,
		Code:       n.Code,
		CustomerID: n.CustomerID,
		Amount:     n.Amount,
		Balance:    n.Balance,
		Currency:   n.Currency,
		Status:     string(status),
	})
	return mapConstraint(err)
}

func (r *creditNotesRepo) ListCreditNotesByShop(
	ctx context.Context,
	shopDomain string,
	limit int,
) ([]domain.CreditNote, error) {
	if limit <= 0 {
		return []domain.CreditNote{}, nil
	}

	rows, err := r.q.ListCreditNotesByShop(ctx, gen.ListCreditNotesByShopParams{
		Shop:  shopDomain,
		Limit: int64(limit),
	})
	if err != nil {
		return nil, err
	}

	notes := make([]domain.CreditNote, len(rows))
	for i, row := range rows {
		notes[i] = mapCreditNote(row)
	}
	return notes, nil
}
