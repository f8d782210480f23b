//go:generate go run go.uber.org/mock/mockgen -source=dm.go -destination=../mocks/mock_dm_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"synaptik/domain"
	"synaptik/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/sync/singleflight"
)

type IDMRepository interface {
	FindOrCreateDM(ctx context.Context, a, b domain.UserID) (domain.DMConversation, error)
	FindDM(ctx context.Context, id domain.DMID) (domain.DMConversation, error)
	ListDMs(ctx context.Context, userID domain.UserID) ([]domain.DMConversation, error)
}

type DMRepository struct {
	db    *badger.DB
	log   *slog.Logger
	group singleflight.Group
	now   func() time.Time
}

func NewDMRepository(db *badger.DB, log *slog.Logger) *DMRepository {
	return &DMRepository{db: db, log: log, now: time.Now}
}

func dmKey(id domain.DMID) string { return "dm:" + string(id) }
func dmPairKey(a, b domain.UserID) string { return "dmpair:" + domain.PairKey(a, b) }
func dmUserKey(userID domain.UserID, id domain.DMID) string {
	return fmt.Sprintf("dmuser:%s:%s", userID, id)
}

// FindOrCreateDM returns the single conversation of an unordered pair, creating it on first use.
// Concurrent callers for the same pair share one lookup in process, and the pair index is
// written in the same transaction as the conversation so a second process loses the
// transaction conflict and reads the winner on retry.
func (r *DMRepository) FindOrCreateDM(_ context.Context, a, b domain.UserID) (domain.DMConversation, error) {
	if a == b {
		return domain.DMConversation{}, errors.ErrCannotDMYourself
	}
	value, err, _ := r.group.Do(domain.PairKey(a, b), func() (any, error) {
		dm, err := r.findOrCreate(a, b)
		if err == badger.ErrConflict {
			r.log.Debug("DM creation conflicted, retrying", "pair", domain.PairKey(a, b))
			dm, err = r.findOrCreate(a, b)
		}
		return dm, err
	})
	if err != nil {
		return domain.DMConversation{}, err
	}
	return value.(domain.DMConversation), nil
}

func (r *DMRepository) findOrCreate(a, b domain.UserID) (domain.DMConversation, error) {
	var dm domain.DMConversation
	err := r.db.Update(func(txn *badger.Txn) error {
		id, err := getString(txn, dmPairKey(a, b))
		switch {
		case err == nil:
			dm, err = getDM(txn, domain.DMID(id))
			return err
		case err != badger.ErrKeyNotFound:
			return err
		}
		dm = domain.NewDMConversation(a, b, r.now().UTC())
		if err := setJSON(txn, dmKey(dm.ID), dm); err != nil {
			return err
		}
		if err := txn.Set([]byte(dmPairKey(a, b)), []byte(dm.ID)); err != nil {
			return err
		}
		for _, participant := range dm.Participants {
			if err := txn.Set([]byte(dmUserKey(participant, dm.ID)), nil); err != nil {
				return err
			}
		}
		return nil
	})
	return dm, err
}

func (r *DMRepository) FindDM(_ context.Context, id domain.DMID) (domain.DMConversation, error) {
	var dm domain.DMConversation
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		dm, err = getDM(txn, id)
		return err
	})
	return dm, err
}

// ListDMs returns the conversations of a user, newest first.
func (r *DMRepository) ListDMs(_ context.Context, userID domain.UserID) ([]domain.DMConversation, error) {
	var dms []domain.DMConversation
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("dmuser:%s:", userID))
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id := domain.DMID(it.Item().Key()[len(prefix):])
			dm, err := getDM(txn, id)
			if err != nil {
				return err
			}
			dms = append(dms, dm)
		}
		return nil
	})
	sort.SliceStable(dms, func(i, j int) bool {
		return dms[i].CreatedAt.After(dms[j].CreatedAt)
	})
	return dms, err
}

func getDM(txn *badger.Txn, id domain.DMID) (domain.DMConversation, error) {
	dm, err := getJSON[domain.DMConversation](txn, dmKey(id))
	if err == badger.ErrKeyNotFound {
		return domain.DMConversation{}, fmt.Errorf("%w: %s", errors.ErrDMNotFound, id)
	}
	return dm, err
}
