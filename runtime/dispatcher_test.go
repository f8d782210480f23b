package runtime

import (
	"context"
	"encoding/json"
	"synaptik/auth"
	"synaptik/domain"
	"synaptik/domain/event"
	"synaptik/errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func frame(t *testing.T, name event.Name, payload any, ackID *int64) event.Frame {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return event.Frame{Event: name, Data: data, AckID: ackID}
}

func TestDispatcher_Send_With_Ack(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	room := f.room(t, "general", alice.ID, false)
	session, sink := f.connect(alice.ID)

	// When alice joins then sends, both with an ack id
	joined := f.dispatcher.Dispatch(ctx, session, frame(t, event.JoinRoom, event.RoomRef{RoomID: string(room.ID)}, lo.ToPtr(int64(1))))
	sent := f.dispatcher.Dispatch(ctx, session, frame(t, event.RoomMessageSend, map[string]any{
		"roomId": room.ID, "senderId": alice.ID, "text": "hello",
	}, lo.ToPtr(int64(2))))

	// Then both acks echo their id
	req.NotNil(joined)
	req.Equal(event.AckName, joined.Name)
	req.Equal(int64(1), *joined.AckID)
	req.True(joined.Payload.(event.Ack).OK)

	req.NotNil(sent)
	req.Equal(int64(2), *sent.AckID)
	ack := sent.Payload.(event.Ack)
	req.True(ack.OK, ack.Error)
	req.Equal("hello", ack.Message.Text)

	// And the message was broadcast to the sender's connection too
	req.Equal(1, sink.Count(event.RoomMessageReceive))
}

func TestDispatcher_No_Ack_Without_Ack_ID(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	room := f.room(t, "general", alice.ID, false)
	session, sink := f.connect(alice.ID)

	req.Nil(f.dispatcher.Dispatch(ctx, session, frame(t, event.JoinRoom, event.RoomRef{RoomID: string(room.ID)}, nil)))
	req.Nil(f.dispatcher.Dispatch(ctx, session, frame(t, event.RoomMessageSend, event.SendPayload{RoomID: string(room.ID), Text: "fire and forget"}, nil)))
	req.Equal(1, sink.Count(event.RoomMessageReceive))
}

func TestDispatcher_Refusals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	session, _ := f.connect(alice.ID)

	tests := []struct {
		name  string
		frame event.Frame
		err   error
	}{
		{"unknown event", event.Frame{Event: "shout", AckID: lo.ToPtr(int64(1))}, errors.ErrUnknownEvent},
		{"missing data", event.Frame{Event: event.JoinRoom, AckID: lo.ToPtr(int64(2))}, errors.ErrInvalidPayload},
		{"not json", event.Frame{Event: event.RoomMessageSend, Data: json.RawMessage(`"oops"`), AckID: lo.ToPtr(int64(3))}, errors.ErrInvalidPayload},
		{"missing room id", frame(t, event.JoinRoom, map[string]string{}, lo.ToPtr(int64(4))), errors.ErrInvalidPayload},
		{"missing dm id", frame(t, event.DMClearChat, map[string]string{}, lo.ToPtr(int64(5))), errors.ErrInvalidPayload},
		{"bad room id", frame(t, event.RoomClearChat, event.RoomRef{RoomID: "x"}, lo.ToPtr(int64(6))), errors.ErrInvalidRoomID},
		{"unknown dm", frame(t, event.JoinDM, event.DMRef{DMID: domain.NewID()}, lo.ToPtr(int64(7))), errors.ErrDMNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)

			out := f.dispatcher.Dispatch(ctx, session, tt.frame)

			req.NotNil(out)
			req.Equal(tt.frame.AckID, out.AckID)
			ack := out.Payload.(event.Ack)
			req.False(ack.OK)
			req.Contains(ack.Error, tt.err.Error())
		})
	}
}

func TestDispatcher_Typing_Is_Never_Acknowledged(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	room := f.room(t, "general", alice.ID, false)
	aliceSession, _ := f.connect(alice.ID)
	bobSession, bobSink := f.connect(bob.ID)
	f.dispatcher.Dispatch(ctx, aliceSession, frame(t, event.JoinRoom, event.RoomRef{RoomID: string(room.ID)}, nil))
	f.dispatcher.Dispatch(ctx, bobSession, frame(t, event.JoinRoom, event.RoomRef{RoomID: string(room.ID)}, nil))

	out := f.dispatcher.Dispatch(ctx, aliceSession, frame(t, event.TypingStart, event.TypingPayload{RoomID: string(room.ID)}, lo.ToPtr(int64(9))))

	req.Nil(out)
	req.Equal(1, bobSink.Count(event.TypingStart))
}

func TestDispatcher_Clear_Chat(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	dm, err := f.stores.DMs.FindOrCreateDM(ctx, alice.ID, bob.ID)
	req.NoError(err)
	aliceSession, _ := f.connect(alice.ID)
	bobSession, bobSink := f.connect(bob.ID)
	f.dispatcher.Dispatch(ctx, bobSession, frame(t, event.JoinDM, event.DMRef{DMID: string(dm.ID)}, nil))
	f.dispatcher.Dispatch(ctx, aliceSession, frame(t, event.DMMessageSend, event.SendPayload{DMID: string(dm.ID), Text: "oops"}, nil))

	out := f.dispatcher.Dispatch(ctx, aliceSession, frame(t, event.DMClearChat, event.DMRef{DMID: string(dm.ID)}, lo.ToPtr(int64(1))))

	req.True(out.Payload.(event.Ack).OK)
	req.Empty(f.history(t, dm.Parent()))
	req.Equal(1, bobSink.Count(event.DMChatCleared))
}

func TestDispatcher_Shares_The_Request_Validator(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	req.Same(auth.Validator(), f.dispatcher.validate)
}
