package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRoom_CreatorIsOwnerAdminAndMember(t *testing.T) {
	req := require.New(t)
	owner := UserID(NewID())

	// When a user creates a room
	room := NewRoom("general", "talk", "misc", false, owner, time.Now())

	// Then the creator holds every role
	req.True(IsValidID(string(room.ID)))
	req.Equal(owner, room.Owner)
	req.True(room.IsAdmin(owner))
	req.True(room.IsMember(owner))
}

func TestRoom_AddMember_IsIdempotent(t *testing.T) {
	req := require.New(t)
	room := NewRoom("general", "", "", false, UserID(NewID()), time.Now())
	alice := UserID(NewID())

	// When the same user is added twice
	req.True(room.AddMember(alice))
	req.False(room.AddMember(alice))

	// Then members stay a set
	req.Len(room.Members, 2)
}

func TestRoom_RemoveMember(t *testing.T) {
	req := require.New(t)
	room := NewRoom("general", "", "", false, UserID(NewID()), time.Now())
	alice := UserID(NewID())
	room.AddMember(alice)

	req.True(room.RemoveMember(alice))
	req.False(room.RemoveMember(alice))
	req.False(room.IsMember(alice))
	req.Len(room.Members, 1)
}

func TestRoom_CanJoin(t *testing.T) {
	req := require.New(t)
	owner := UserID(NewID())
	stranger := UserID(NewID())

	public := NewRoom("public", "", "", false, owner, time.Now())
	private := NewRoom("private", "", "", true, owner, time.Now())

	req.True(public.CanJoin(stranger))
	req.False(private.CanJoin(stranger))
	req.True(private.CanJoin(owner))
}

func TestRoom_Parent_Key(t *testing.T) {
	req := require.New(t)
	room := Room{ID: "42"}
	req.Equal(ChannelKey("room_42"), room.Parent().Key())
	req.Equal(ChannelKey("dm_7"), DMParent("7").Key())
}
