package repositories

import (
	"log/slog"
	"synaptik/domain"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

func newUser(username string) domain.User {
	return domain.User{
		ID:          domain.UserID(domain.NewID()),
		Username:    username,
		Email:       username + "@synaptik.dev",
		DisplayName: username,
		Settings:    domain.DefaultSettings(),
		CreatedAt:   time.Now().UTC(),
	}
}
