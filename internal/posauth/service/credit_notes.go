package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aussiebroadwan/creditpos/internal/posauth/domain"
	"github.com/aussiebroadwan/creditpos/internal/posauth/store"
	"github.com/aussiebroadwan/creditpos/pkg/idx"
	"github.com/pkg/errors"
)

const (
	DefaultCreditNoteLimit = 50
	MaxCreditNoteLimit     = 250
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

type CreditNoteService struct {
	Store  store.Store
	Logger *slog.Logger
}

func NewCreditNoteService(st store.Store, logger *slog.Logger) *CreditNoteService {
	return &CreditNoteService{Store: st, Logger: logger}
}

// IssueRequest is the input for Issue.
type IssueRequest struct {
	Code       string `json:"code"`
	CustomerID string `json:"customerId"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
}

// List returns the newest credit notes for shop. A non-positive limit means
// DefaultCreditNoteLimit; anything above MaxCreditNoteLimit is clamped.
func (s *CreditNoteService) List(ctx context.Context, shop string, limit int) ([]domain.CreditNote, error) {
	switch {
	case limit <= 0:
		limit = DefaultCreditNoteLimit
	case limit > MaxCreditNoteLimit:
		limit = MaxCreditNoteLimit
	}

	notes, err := s.Store.CreditNotes().ListCreditNotesByShop(ctx, shop, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "could not list credit notes for %s", shop)
	}
	return notes, nil
}

// Issue creates an active credit note with its full amount as balance.
func (s *CreditNoteService) Issue(ctx context.Context, shop string, req IssueRequest) (domain.CreditNote, error) {
	code := strings.TrimSpace(req.Code)
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))

	switch {
	case code == "":
		return domain.CreditNote{}, errors.Wrap(ErrInvalidCreditNote, "code is required")
	case req.Amount <= 0:
		return domain.CreditNote{}, errors.Wrap(ErrInvalidCreditNote, "amount must be positive")
	case !currencyPattern.MatchString(currency):
		return domain.CreditNote{}, errors.Wrap(ErrInvalidCreditNote, "currency must be an ISO 4217 code")
	}

	note := domain.CreditNote{
		ID:         idx.New().String(),
		Shop:       shop,
		Code:       code,
		CustomerID: strings.TrimSpace(req.CustomerID),
		Amount:     req.Amount,
		Balance:    req.Amount,
		Currency:   currency,
		Status:     domain.CreditNoteActive,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	note.UpdatedAt = note.CreatedAt

	err := s.Store.CreditNotes().CreateCreditNote(ctx, note)
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.CreditNote{}, ErrDuplicateCode
	case errors.Is(err, store.ErrNotFound):
		return domain.CreditNote{}, ErrShopNotInstalled
	case err != nil:
		return domain.CreditNote{}, errors.Wrapf(err, "could not issue credit note for %s", shop)
	}

	s.Logger.Info("credit note issued", "shop", shop, "id", note.ID, "amount", note.Amount, "currency", note.Currency)
	return note, nil
}
