package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/creditpos/internal/posauth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories per table so a Tx-scoped store can't start another
// transaction by accident.
type Store interface {
	Shops() Shops
	CreditNotes() CreditNotes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when fn returns nil
	// and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Shops interface {
	// UpsertShop records an install, or replaces the sealed token and scopes
	// of an existing one. InstalledAt is preserved on update.
	UpsertShop(ctx context.Context, s domain.Shop) error

	// GetShop returns an installed shop by its myshopify domain.
	GetShop(ctx context.Context, shopDomain string) (domain.Shop, error)

	// ListShops returns all installed shops ordered by domain.
	ListShops(ctx context.Context) ([]domain.Shop, error)

	// DeleteShop removes the shop and cascades to its credit notes.
	DeleteShop(ctx context.Context, shopDomain string) error
}

type CreditNotes interface {
	// CreateCreditNote inserts a note (id is provided by the caller via ULID).
	// A duplicate code within a shop yields ErrAlreadyExists.
	CreateCreditNote(ctx context.Context, n domain.CreditNote) error

	// ListCreditNotesByShop returns the newest notes for a shop, at most limit.
	ListCreditNotesByShop(ctx context.Context, shopDomain string, limit int) ([]domain.CreditNote, error)
}
