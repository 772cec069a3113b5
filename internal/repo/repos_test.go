package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/carbook/backend/internal/domain"
	"github.com/pkordes/carbook/backend/internal/repo"
	"github.com/pkordes/carbook/backend/testutil"
)

// newTestTx opens a transaction against the test database. The transaction is
// automatically rolled back when the test finishes, giving free per-test
// isolation. All repos under test share the transaction so they see each
// other's uncommitted rows, the same way they share a pool in production.
//
// Requires TEST_DATABASE_URL to be set; migrations run once in TestMain.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test.
		_ = tx.Rollback(context.Background())
	})

	return tx
}

func hour(h int) time.Time {
	return time.Date(2025, 7, 1, h, 0, 0, 0, time.UTC)
}

// createResource inserts a resource fixture through the real repo.
func createResource(t *testing.T, tx pgx.Tx, rtype domain.ResourceType, name string) domain.Resource {
	t.Helper()
	created, err := repo.NewResourceRepo(tx).Create(context.Background(), domain.Resource{
		Type:              rtype,
		Name:              name,
		OperationalStatus: domain.OpAvailable,
	})
	require.NoError(t, err, "create %s fixture", rtype)
	return created
}

// createBooking inserts a booking fixture for the given car, with optional
// overrides applied before the insert.
func createBooking(t *testing.T, tx pgx.Tx, b domain.Booking) domain.Booking {
	t.Helper()
	created, err := repo.NewBookingRepo(tx).Create(context.Background(), b)
	require.NoError(t, err, "create booking fixture")
	return created
}
