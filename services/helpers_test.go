package services_test

import (
	"log/slog"
	"synaptik/domain"
	"time"

	"github.com/mama165/sdk-go/logs"
)

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

func newUser(username string) domain.User {
	return domain.NewUser(username, username+"@synaptik.dev", "", "", time.Now().UTC())
}
