package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"freelance-ledger/internal/ledger"
	"freelance-ledger/internal/storage/storetest"
)

// Set LEDGER_TEST_POSTGRES_URL to a disposable database to run these.
func TestPostgresStoreSuite(t *testing.T) {
	url := os.Getenv("LEDGER_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("LEDGER_TEST_POSTGRES_URL not set")
	}

	store, err := New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	suite.Run(t, &storetest.StoreSuite{
		NewStore: func() (ledger.Store, func()) {
			require.NoError(t, store.Truncate(context.Background()))
			return store, nil
		},
	})
}
