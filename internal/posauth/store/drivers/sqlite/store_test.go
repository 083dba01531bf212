package sqlite

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/creditpos/internal/posauth/domain"
	"github.com/aussiebroadwan/creditpos/internal/posauth/store"
	"github.com/aussiebroadwan/creditpos/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedShop(t *testing.T, s store.Store, shop string) {
	t.Helper()
	require.NoError(t, s.Shops().UpsertShop(context.Background(), domain.Shop{
		Domain:               shop,
		AccessTokenEncrypted: []byte("sealed"),
		Scopes:               []string{"read_customers", "write_gift_cards"},
	}))
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestShops(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("get missing shop", func(t *testing.T) {
		_, err := s.Shops().GetShop(ctx, "missing.myshopify.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("upsert inserts then updates", func(t *testing.T) {
		seedShop(t, s, "alpha.myshopify.com")

		got, err := s.Shops().GetShop(ctx, "alpha.myshopify.com")
		require.NoError(t, err)
		require.Equal(t, []byte("sealed"), got.AccessTokenEncrypted)
		require.Equal(t, []string{"read_customers", "write_gift_cards"}, got.Scopes)
		require.False(t, got.InstalledAt.IsZero())

		require.NoError(t, s.Shops().UpsertShop(ctx, domain.Shop{
			Domain:               "alpha.myshopify.com",
			AccessTokenEncrypted: []byte("rotated"),
		}))

		got, err = s.Shops().GetShop(ctx, "alpha.myshopify.com")
		require.NoError(t, err)
		require.Equal(t, []byte("rotated"), got.AccessTokenEncrypted)
		require.Empty(t, got.Scopes)
	})

	t.Run("list is ordered by domain", func(t *testing.T) {
		seedShop(t, s, "zulu.myshopify.com")
		seedShop(t, s, "bravo.myshopify.com")

		shops, err := s.Shops().ListShops(ctx)
		require.NoError(t, err)
		require.Len(t, shops, 3)
		require.Equal(t, "alpha.myshopify.com", shops[0].Domain)
		require.Equal(t, "bravo.myshopify.com", shops[1].Domain)
		require.Equal(t, "zulu.myshopify.com", shops[2].Domain)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Shops().DeleteShop(ctx, "zulu.myshopify.com"))
		require.ErrorIs(t, s.Shops().DeleteShop(ctx, "zulu.myshopify.com"), store.ErrNotFound)
	})
}

func TestCreditNotes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedShop(t, s, "alpha.myshopify.com")
	seedShop(t, s, "bravo.myshopify.com")

	note := func(shop, code string) domain.CreditNote {
		return domain.CreditNote{
			ID:       idx.New().String(),
			Shop:     shop,
			Code:     code,
			Amount:   2500,
			Balance:  2500,
			Currency: "AUD",
		}
	}

	for _, code := range []string{"CN-1", "CN-2", "CN-3"} {
		require.NoError(t, s.CreditNotes().CreateCreditNote(ctx, note("alpha.myshopify.com", code)))
	}
	require.NoError(t, s.CreditNotes().CreateCreditNote(ctx, note("bravo.myshopify.com", "CN-1")))

	t.Run("newest first and scoped to shop", func(t *testing.T) {
		notes, err := s.CreditNotes().ListCreditNotesByShop(ctx, "alpha.myshopify.com", 10)
		require.NoError(t, err)
		require.Len(t, notes, 3)
		require.Equal(t, "CN-3", notes[0].Code)
		require.Equal(t, domain.CreditNoteActive, notes[0].Status)
		for _, n := range notes {
			require.Equal(t, "alpha.myshopify.com", n.Shop)
		}
	})

	t.Run("limit", func(t *testing.T) {
		notes, err := s.CreditNotes().ListCreditNotesByShop(ctx, "alpha.myshopify.com", 2)
		require.NoError(t, err)
		require.Len(t, notes, 2)

		notes, err = s.CreditNotes().ListCreditNotesByShop(ctx, "alpha.myshopify.com", 0)
		require.NoError(t, err)
		require.Empty(t, notes)
	})

	t.Run("duplicate code within a shop", func(t *testing.T) {
		err := s.CreditNotes().CreateCreditNote(ctx, note("alpha.myshopify.com", "CN-1"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("unknown shop violates foreign key", func(t *testing.T) {
		err := s.CreditNotes().CreateCreditNote(ctx, note("ghost.myshopify.com", "CN-1"))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("deleting a shop cascades", func(t *testing.T) {
		require.NoError(t, s.Shops().DeleteShop(ctx, "bravo.myshopify.com"))
		notes, err := s.CreditNotes().ListCreditNotesByShop(ctx, "bravo.myshopify.com", 10)
		require.NoError(t, err)
		require.Empty(t, notes)
	})
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("rollback on error", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			seedShop(t, tx, "rolled.myshopify.com")
			return store.ErrAlreadyExists
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		_, err = s.Shops().GetShop(ctx, "rolled.myshopify.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("commit on success", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			seedShop(t, tx, "kept.myshopify.com")
			return nil
		})
		require.NoError(t, err)

		_, err = s.Shops().GetShop(ctx, "kept.myshopify.com")
		require.NoError(t, err)
	})

	t.Run("nested transactions are refused", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			_, err := tx.Tx(ctx)
			return err
		})
		require.Error(t, err)
	})
}
