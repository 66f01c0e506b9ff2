//go:build integration

package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guttosm/fare-offer-service/internal/testutil"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.RunWithMongoDB(context.Background(), m))
}

// setupTestDB connects to the shared container using a database private to t.
func setupTestDB(t *testing.T) *MongoDB {
	t.Helper()
	db, err := NewMongoDB(testutil.SharedMongoURI(), testutil.DBName(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx := context.Background()
		_ = db.Database.Drop(ctx)
		_ = db.Close(ctx)
	})
	return db
}
