package domain

import (
	"time"

	"github.com/samber/lo"
)

type RoomID string

type Room struct {
	ID          RoomID    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	IsPrivate   bool      `json:"isPrivate"`
	Owner       UserID    `json:"owner"`
	Admins      []UserID  `json:"admins"`
	Members     []UserID  `json:"members"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewRoom builds a room whose creator is owner, admin and first member.
func NewRoom(name, description, category string, isPrivate bool, owner UserID, at time.Time) Room {
	return Room{
		ID:          RoomID(NewID()),
		Name:        name,
		Description: description,
		Category:    category,
		IsPrivate:   isPrivate,
		Owner:       owner,
		Admins:      []UserID{owner},
		Members:     []UserID{owner},
		CreatedAt:   at,
	}
}

func (r Room) IsMember(userID UserID) bool {
	return lo.Contains(r.Members, userID)
}

func (r Room) IsAdmin(userID UserID) bool {
	return r.Owner == userID || lo.Contains(r.Admins, userID)
}

// CanJoin is true for any user on a public room, and for members only on a private one.
func (r Room) CanJoin(userID UserID) bool {
	return !r.IsPrivate || r.IsMember(userID)
}

// AddMember keeps Members a set. It returns false when the user was already there.
func (r *Room) AddMember(userID UserID) bool {
	if r.IsMember(userID) {
		return false
	}
	r.Members = append(r.Members, userID)
	return true
}

func (r *Room) RemoveMember(userID UserID) bool {
	if !r.IsMember(userID) {
		return false
	}
	r.Members = lo.Without(r.Members, userID)
	return true
}

func (r Room) Parent() Parent {
	return RoomParent(r.ID)
}
