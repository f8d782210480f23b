//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"synaptik/domain"
	"synaptik/errors"

	"github.com/dgraph-io/badger/v4"
)

type IRoomRepository interface {
	CreateRoom(ctx context.Context, room domain.Room) error
	FindRoom(ctx context.Context, id domain.RoomID) (domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
	AddMember(ctx context.Context, id domain.RoomID, userID domain.UserID) (domain.Room, bool, error)
	RemoveMember(ctx context.Context, id domain.RoomID, userID domain.UserID) (domain.Room, bool, error)
}

type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) *RoomRepository {
	return &RoomRepository{db: db, log: log}
}

func roomKey(id domain.RoomID) string { return "room:" + string(id) }
func roomNameKey(name string) string { return "roomname:" + lower(name) }

// CreateRoom fails with ErrRoomNameTaken when a room already uses the name, whatever its case.
func (r *RoomRepository) CreateRoom(_ context.Context, room domain.Room) error {
	room.CreatedAt = room.CreatedAt.UTC()
	return r.db.Update(func(txn *badger.Txn) error {
		taken, err := exists(txn, roomNameKey(room.Name))
		if err != nil {
			return err
		}
		if taken {
			return errors.ErrRoomNameTaken
		}
		if err := setJSON(txn, roomKey(room.ID), room); err != nil {
			return err
		}
		return txn.Set([]byte(roomNameKey(room.Name)), []byte(room.ID))
	})
}

func (r *RoomRepository) FindRoom(_ context.Context, id domain.RoomID) (domain.Room, error) {
	var room domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		room, err = getRoom(txn, id)
		return err
	})
	return room, err
}

// ListRooms returns every room, newest first.
func (r *RoomRepository) ListRooms(_ context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte("room:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			room, err := getJSON[domain.Room](txn, string(it.Item().Key()))
			if err != nil {
				return err
			}
			rooms = append(rooms, room)
		}
		return nil
	})
	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})
	return rooms, err
}

// AddMember reports whether the user was not a member yet.
func (r *RoomRepository) AddMember(_ context.Context, id domain.RoomID, userID domain.UserID) (domain.Room, bool, error) {
	return r.mutate(id, func(room *domain.Room) bool { return room.AddMember(userID) })
}

func (r *RoomRepository) RemoveMember(_ context.Context, id domain.RoomID, userID domain.UserID) (domain.Room, bool, error) {
	return r.mutate(id, func(room *domain.Room) bool { return room.RemoveMember(userID) })
}

func (r *RoomRepository) mutate(id domain.RoomID, change func(room *domain.Room) bool) (domain.Room, bool, error) {
	var room domain.Room
	var changed bool
	err := r.db.Update(func(txn *badger.Txn) error {
		var err error
		room, err = getRoom(txn, id)
		if err != nil {
			return err
		}
		if changed = change(&room); !changed {
			return nil
		}
		return setJSON(txn, roomKey(id), room)
	})
	return room, changed, err
}

func getRoom(txn *badger.Txn, id domain.RoomID) (domain.Room, error) {
	room, err := getJSON[domain.Room](txn, roomKey(id))
	if err == badger.ErrKeyNotFound {
		return domain.Room{}, fmt.Errorf("%w: %s", errors.ErrRoomNotFound, id)
	}
	return room, err
}
