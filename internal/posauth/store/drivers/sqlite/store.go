package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aussiebroadwan/creditpos/internal/posauth/domain"
	"github.com/aussiebroadwan/creditpos/internal/posauth/store"
	"github.com/aussiebroadwan/creditpos/internal/posauth/store/drivers/sqlite/gen"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	q   *gen.Queries
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open database %q", dsn)
	}

	// One writer at a time, and the FK pragma below is per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "could not enable foreign keys")
	}

	return &Store{
		db:  db,
		q:   gen.New(db),
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Shops() store.Shops             { return &shopsRepo{q: s.q} }
func (s *Store) CreditNotes() store.CreditNotes { return &creditNotesRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConstraint(err error) error {
	switch {
	case err == nil:
		return nil
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return store.ErrAlreadyExists
	case strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return errors.Wrap(store.ErrNotFound, "referenced row does not exist")
	}
	return err
}

func splitScopes(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

func mapShop(row gen.Shop) domain.Shop {
	return domain.Shop{
		Domain:               row.Domain,
		AccessTokenEncrypted: row.AccessTokenEncrypted,
		Scopes:               splitScopes(row.Scopes),
		InstalledAt:          row.InstalledAt,
		UpdatedAt:            row.UpdatedAt,
	}
}

func mapCreditNote(row gen.CreditNote) domain.CreditNote {
	return domain.CreditNote{
		ID:         row.ID,
		Shop:       row.Shop,
		Code:       row.Code,
		CustomerID: row.CustomerID,
		Amount:     row.Amount,
		Balance:    row.Balance,
		Currency:   row.Currency,
		Status:     domain.CreditNoteStatus(row.Status),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
