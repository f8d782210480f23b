//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"synaptik/domain"
	"synaptik/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	CreateUser(ctx context.Context, user domain.User) error
	FindUser(ctx context.Context, id domain.UserID) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByEmailOrUsername(ctx context.Context, login string) (domain.User, error)
	SearchByUsername(ctx context.Context, prefix string, exclude domain.UserID, limit int) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id domain.UserID, update domain.ProfileUpdate) (domain.User, error)
	MarkVerified(ctx context.Context, id domain.UserID) error
	UpdateUserPresence(ctx context.Context, id domain.UserID, presence domain.Presence) error
	ResetPresence(ctx context.Context) (int, error)
}

type UserRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewUserRepository(db *badger.DB, log *slog.Logger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

// diskUser is the stored form of a user. Unlike domain.User it keeps the password hash.
type diskUser struct {
	ID           domain.UserID   `json:"id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"passwordHash"`
	DisplayName  string          `json:"displayName"`
	AvatarURL    *string         `json:"avatarUrl"`
	Bio          string          `json:"bio"`
	Online       bool            `json:"online"`
	LastSeen     *time.Time      `json:"lastSeen"`
	Settings     domain.Settings `json:"settings"`
	Verified     bool            `json:"verified"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func userKey(id domain.UserID) string { return "user:" + string(id) }
func usernameKey(name string) string { return "username:" + lower(name) }
func emailKey(email string) string { return "email:" + lower(email) }

// CreateUser persists a new user and its username/email indexes in one transaction.
// A clash on either index returns ErrUserAlreadyExists.
func (r *UserRepository) CreateUser(_ context.Context, user domain.User) error {
	return r.db.Update(func(txn *badger.Txn) error {
		for _, key := range []string{usernameKey(user.Username), emailKey(user.Email)} {
			found, err := exists(txn, key)
			if err != nil {
				return err
			}
			if found {
				return errors.ErrUserAlreadyExists
			}
		}
		if err := setJSON(txn, userKey(user.ID), fromUser(user)); err != nil {
			return err
		}
		if err := txn.Set([]byte(usernameKey(user.Username)), []byte(user.ID)); err != nil {
			return err
		}
		return txn.Set([]byte(emailKey(user.Email)), []byte(user.ID))
	})
}

func (r *UserRepository) FindUser(_ context.Context, id domain.UserID) (domain.User, error) {
	var user domain.User
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = r.get(txn, id)
		return err
	})
	return user, err
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (domain.User, error) {
	return r.findByIndex(emailKey(email))
}

// FindByEmailOrUsername resolves a login that may be either an email or a username.
func (r *UserRepository) FindByEmailOrUsername(_ context.Context, login string) (domain.User, error) {
	user, err := r.findByIndex(emailKey(login))
	if errors.Is(err, errors.ErrUserNotFound) {
		return r.findByIndex(usernameKey(login))
	}
	return user, err
}

// SearchByUsername returns users whose username starts with prefix, case-insensitively,
// in username order, skipping exclude.
func (r *UserRepository) SearchByUsername(_ context.Context, prefix string, exclude domain.UserID, limit int) ([]domain.User, error) {
	var users []domain.User
	err := r.db.View(func(txn *badger.Txn) error {
		scan := []byte(usernameKey(prefix))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(scan); it.ValidForPrefix(scan); it.Next() {
			if limit > 0 && len(users) == limit {
				break
			}
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			if domain.UserID(id) == exclude {
				continue
			}
			user, err := r.get(txn, domain.UserID(id))
			if err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	return users, err
}

func (r *UserRepository) UpdateProfile(_ context.Context, id domain.UserID, update domain.ProfileUpdate) (domain.User, error) {
	var user domain.User
	err := r.update(id, func(disk *diskUser) {
		u := toUser(*disk)
		u.Apply(update)
		disk.DisplayName = u.DisplayName
		disk.AvatarURL = u.AvatarURL
		disk.Bio = u.Bio
		disk.Settings = u.Settings
		user = toUser(*disk)
	})
	return user, err
}

func (r *UserRepository) MarkVerified(_ context.Context, id domain.UserID) error {
	return r.update(id, func(disk *diskUser) {
		disk.Verified = true
	})
}

// UpdateUserPresence writes the online flag, and lastSeen when provided.
func (r *UserRepository) UpdateUserPresence(_ context.Context, id domain.UserID, presence domain.Presence) error {
	return r.update(id, func(disk *diskUser) {
		disk.Online = presence.Online
		if presence.LastSeen != nil {
			disk.LastSeen = presence.LastSeen
		}
	})
}

// ResetPresence marks every user offline. Presence only lives as long as the process
// that holds the connections, so a fresh process starts from nobody online.
func (r *UserRepository) ResetPresence(_ context.Context) (int, error) {
	var online []domain.UserID
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("user:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			disk, err := getJSON[diskUser](txn, string(it.Item().Key()))
			if err != nil {
				return err
			}
			if disk.Online {
				online = append(online, disk.ID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	for _, id := range online {
		if err := r.update(id, func(disk *diskUser) { disk.Online = false }); err != nil {
			return 0, err
		}
	}
	return len(online), nil
}

func (r *UserRepository) findByIndex(key string) (domain.User, error) {
	var user domain.User
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getString(txn, key)
		if err == badger.ErrKeyNotFound {
			return errors.ErrUserNotFound
		}
		if err != nil {
			return err
		}
		user, err = r.get(txn, domain.UserID(id))
		return err
	})
	return user, err
}

func (r *UserRepository) get(txn *badger.Txn, id domain.UserID) (domain.User, error) {
	disk, err := getJSON[diskUser](txn, userKey(id))
	if err == badger.ErrKeyNotFound {
		return domain.User{}, fmt.Errorf("%w: %s", errors.ErrUserNotFound, id)
	}
	if err != nil {
		return domain.User{}, err
	}
	return toUser(disk), nil
}

func (r *UserRepository) update(id domain.UserID, mutate func(disk *diskUser)) error {
	return r.db.Update(func(txn *badger.Txn) error {
		disk, err := getJSON[diskUser](txn, userKey(id))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %s", errors.ErrUserNotFound, id)
		}
		if err != nil {
			return err
		}
		mutate(&disk)
		return setJSON(txn, userKey(id), disk)
	})
}

func fromUser(u domain.User) diskUser {
	return diskUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		DisplayName:  u.DisplayName,
		AvatarURL:    u.AvatarURL,
		Bio:          u.Bio,
		Online:       u.Online,
		LastSeen:     u.LastSeen,
		Settings:     u.Settings,
		Verified:     u.Verified,
		CreatedAt:    u.CreatedAt,
	}
}

func toUser(d diskUser) domain.User {
	return domain.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		DisplayName:  d.DisplayName,
		AvatarURL:    d.AvatarURL,
		Bio:          d.Bio,
		Online:       d.Online,
		LastSeen:     d.LastSeen,
		Settings:     d.Settings,
		Verified:     d.Verified,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}
