package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewMessage_HasExactlyOneParent(t *testing.T) {
	req := require.New(t)
	sender := UserID(NewID())

	roomMessage := NewMessage(RoomParent("r1"), sender, "", "hi", nil, time.Now())
	req.NotNil(roomMessage.RoomID)
	req.Nil(roomMessage.DMID)
	req.Equal(TypeText, roomMessage.Type)
	req.Equal(RoomParent("r1"), roomMessage.Parent())
	req.NotNil(roomMessage.ReadBy)

	dmMessage := NewMessage(DMParent("d1"), sender, TypeImage, "", &Media{URL: "/uploads/x.png"}, time.Now())
	req.Nil(dmMessage.RoomID)
	req.NotNil(dmMessage.DMID)
	req.Equal(DMParent("d1"), dmMessage.Parent())
}

func TestNewMessage_IdsFollowCreationOrder(t *testing.T) {
	req := require.New(t)
	first := NewMessage(RoomParent("r1"), "u", TypeText, "1", nil, time.Now())
	second := NewMessage(RoomParent("r1"), "u", TypeText, "2", nil, time.Now())
	req.Less(string(first.ID), string(second.ID))
}

func TestMessageType_Valid(t *testing.T) {
	req := require.New(t)
	for _, mt := range []MessageType{TypeText, TypeImage, TypeVideo, TypeFile, TypeSystem} {
		req.True(mt.Valid(), mt)
	}
	req.False(MessageType("sticker").Valid())
	req.False(MessageType("").Valid())
	req.True(TypeFile.HasMedia())
	req.False(TypeText.HasMedia())
}

func TestEnrich_AttachesSenderSummary(t *testing.T) {
	req := require.New(t)
	avatar := "/uploads/a.png"
	alice := User{ID: "a", Username: "alice", DisplayName: "Alice", AvatarURL: &avatar, PasswordHash: "secret"}
	msg := NewMessage(RoomParent("r1"), alice.ID, TypeText, "hi", nil, time.Now())

	enriched := Enrich(msg, alice)
	bytes, err := json.Marshal(enriched)
	req.NoError(err)

	// The wire form carries the sender profile but never the credential
	req.Contains(string(bytes), `"username":"alice"`)
	req.Contains(string(bytes), `"text":"hi"`)
	req.NotContains(string(bytes), "secret")
}
