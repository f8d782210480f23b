// Package event defines the frames exchanged with clients and the technical events
// circulating between workers.
package event

import (
	"encoding/json"
	"synaptik/domain"
)

type Name string

// Client to server.
const (
	JoinRoom        Name = "join_room"
	LeaveRoom       Name = "leave_room"
	JoinDM          Name = "join_dm"
	RoomMessageSend Name = "room_message_send"
	DMMessageSend   Name = "dm_message_send"
	TypingStart     Name = "typing_start"
	TypingStop      Name = "typing_stop"
	RoomClearChat   Name = "room_clear_chat"
	DMClearChat     Name = "dm_clear_chat"
)

// Server to client.
const (
	UserOnline         Name = "user_online"
	UserOffline        Name = "user_offline"
	RoomMessageReceive Name = "room_message_receive"
	DMMessageReceive   Name = "dm_message_receive"
	SystemMessage      Name = "system_message"
	RoomChatCleared    Name = "room_chat_cleared"
	DMChatCleared      Name = "dm_chat_cleared"
	AckName            Name = "ack"
)

// Frame is the JSON unit written on a connection in both directions.
// A client frame carrying an AckID gets exactly one ack frame back with the same id.
type Frame struct {
	Event Name            `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	AckID *int64          `json:"ackId,omitempty"`
}

// Outbound is a server event waiting to be encoded for a connection.
type Outbound struct {
	Name    Name
	Payload any
	AckID   *int64
}

func (o Outbound) Encode() ([]byte, error) {
	frame := Frame{Event: o.Name, AckID: o.AckID}
	if o.Payload != nil {
		data, err := json.Marshal(o.Payload)
		if err != nil {
			return nil, err
		}
		frame.Data = data
	}
	return json.Marshal(frame)
}

type RoomRef struct {
	RoomID string `json:"roomId" validate:"required"`
}

type DMRef struct {
	DMID string `json:"dmId" validate:"required"`
}

// SendPayload is the body of room_message_send and dm_message_send.
type SendPayload struct {
	RoomID   string        `json:"roomId"`
	DMID     string        `json:"dmId"`
	SenderID string        `json:"senderId"`
	Text     string        `json:"text"`
	Type     string        `json:"type"`
	Media    *domain.Media `json:"media"`
}

type TypingPayload struct {
	RoomID string          `json:"roomId" validate:"required"`
	User   json.RawMessage `json:"user,omitempty"`
}

type PresencePayload struct {
	UserID domain.UserID `json:"userId"`
}

type SystemPayload struct {
	Text string `json:"text"`
}

// Ack answers one client request. It is never broadcast.
type Ack struct {
	OK      bool                    `json:"ok"`
	Message *domain.EnrichedMessage `json:"message,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

func AckOK(message *domain.EnrichedMessage) Ack {
	return Ack{OK: true, Message: message}
}

func AckError(err error) Ack {
	return Ack{OK: false, Error: err.Error()}
}

func (a Ack) Outbound(ackID *int64) Outbound {
	return Outbound{Name: AckName, Payload: a, AckID: ackID}
}

func Presence(online bool, userID domain.UserID) Outbound {
	name := UserOffline
	if online {
		name = UserOnline
	}
	return Outbound{Name: name, Payload: PresencePayload{UserID: userID}}
}

func System(text string) Outbound {
	return Outbound{Name: SystemMessage, Payload: SystemPayload{Text: text}}
}

// MessageReceived picks the receive event matching the message parent.
func MessageReceived(m domain.EnrichedMessage) Outbound {
	name := RoomMessageReceive
	if m.Parent().Kind == domain.KindDM {
		name = DMMessageReceive
	}
	return Outbound{Name: name, Payload: m}
}

func ChatCleared(kind domain.ChannelKind) Outbound {
	if kind == domain.KindDM {
		return Outbound{Name: DMChatCleared}
	}
	return Outbound{Name: RoomChatCleared}
}
