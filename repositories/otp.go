//go:generate go run go.uber.org/mock/mockgen -source=otp.go -destination=../mocks/mock_otp_repository.go -package=mocks
package repositories

import (
	"context"
	"log/slog"
	"synaptik/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IOTPRepository interface {
	SaveCode(ctx context.Context, email, code string, ttl time.Duration) error
	// ConsumeCode deletes the stored code when it matches.
	ConsumeCode(ctx context.Context, email, code string) error
}

type OTPRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewOTPRepository(db *badger.DB, log *slog.Logger) *OTPRepository {
	return &OTPRepository{db: db, log: log}
}

func otpKey(email string) string { return "otp:" + lower(email) }

// SaveCode replaces any previous code of the email. Badger expires it after ttl.
func (r *OTPRepository) SaveCode(_ context.Context, email, code string, ttl time.Duration) error {
	return r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(otpKey(email)), []byte(code)).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}

func (r *OTPRepository) ConsumeCode(_ context.Context, email, code string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		stored, err := getString(txn, otpKey(email))
		if err == badger.ErrKeyNotFound {
			return errors.ErrOTPNotFound
		}
		if err != nil {
			return err
		}
		if stored != code {
			return errors.ErrInvalidOTP
		}
		return txn.Delete([]byte(otpKey(email)))
	})
}
