//go:generate go run go.uber.org/mock/mockgen -source=room_service.go -destination=../mocks/mock_room_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"strings"
	"synaptik/domain"
	"synaptik/errors"
	"synaptik/repositories"
	"time"
)

type IRoomService interface {
	List(ctx context.Context, userID domain.UserID) (RoomList, error)
	Create(ctx context.Context, userID domain.UserID, request CreateRoomRequest) (domain.Room, error)
	Get(ctx context.Context, userID domain.UserID, roomID string) (domain.Room, error)
	Join(ctx context.Context, userID domain.UserID, roomID string) (domain.Room, error)
	Leave(ctx context.Context, userID domain.UserID, roomID string) (domain.Room, error)
}

// RoomList splits the rooms a user can see: every public room, and the private ones they belong to.
type RoomList struct {
	Public  []domain.Room `json:"public"`
	Private []domain.Room `json:"private"`
}

type RoomService struct {
	log   *slog.Logger
	rooms repositories.IRoomRepository
	now   func() time.Time
}

func NewRoomService(log *slog.Logger, rooms repositories.IRoomRepository) *RoomService {
	return &RoomService{log: log, rooms: rooms, now: time.Now}
}

func (s *RoomService) List(ctx context.Context, userID domain.UserID) (RoomList, error) {
	rooms, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return RoomList{}, err
	}
	list := RoomList{Public: []domain.Room{}, Private: []domain.Room{}}
	for _, room := range rooms {
		switch {
		case !room.IsPrivate:
			list.Public = append(list.Public, room)
		case room.IsMember(userID):
			list.Private = append(list.Private, room)
		}
	}
	return list, nil
}

func (s *RoomService) Create(ctx context.Context, userID domain.UserID, request CreateRoomRequest) (domain.Room, error) {
	request.Name = strings.TrimSpace(request.Name)
	if err := validateRequest(request); err != nil {
		return domain.Room{}, err
	}
	room := domain.NewRoom(request.Name, request.Description, request.Category, request.IsPrivate, userID, s.now().UTC())
	if err := s.rooms.CreateRoom(ctx, room); err != nil {
		return domain.Room{}, err
	}
	s.log.Info("Room created", "room_id", room.ID, "owner", userID, "private", room.IsPrivate)
	return room, nil
}

// Get hides private rooms from non members.
func (s *RoomService) Get(ctx context.Context, userID domain.UserID, roomID string) (domain.Room, error) {
	room, err := s.find(ctx, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	if !room.CanJoin(userID) {
		return domain.Room{}, errors.ErrForbidden
	}
	return room, nil
}

// Join adds the user to the members. A private room requires an invitation, i.e. existing membership.
func (s *RoomService) Join(ctx context.Context, userID domain.UserID, roomID string) (domain.Room, error) {
	room, err := s.Get(ctx, userID, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	room, _, err = s.rooms.AddMember(ctx, room.ID, userID)
	return room, err
}

func (s *RoomService) Leave(ctx context.Context, userID domain.UserID, roomID string) (domain.Room, error) {
	room, err := s.find(ctx, roomID)
	if err != nil {
		return domain.Room{}, err
	}
	room, _, err = s.rooms.RemoveMember(ctx, room.ID, userID)
	return room, err
}

func (s *RoomService) find(ctx context.Context, roomID string) (domain.Room, error) {
	if !domain.IsValidID(roomID) {
		return domain.Room{}, errors.ErrInvalidRoomID
	}
	return s.rooms.FindRoom(ctx, domain.RoomID(roomID))
}
