package repository_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/mobil-koeln/roamly/internal/testutil"
	"github.com/mobil-koeln/roamly/migrations"
)

// TestMain migrates the integration database once for the whole package.
// Without TEST_DATABASE_URL the Postgres tests skip themselves.
func TestMain(m *testing.M) {
	dsn := os.Getenv(testutil.DatabaseURLEnv)
	if dsn == "" {
		os.Exit(m.Run())
	}

	db := testutil.MustOpenSQLDB(dsn)
	if _, err := migrations.Up(context.Background(), db); err != nil {
		_ = db.Close()
		log.Fatalf("TestMain: %v", err)
	}
	_ = db.Close()

	os.Exit(m.Run())
}
