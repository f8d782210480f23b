// Package domain contains core concepts of the chat system.
package domain

import (
	"time"
)

type MessageID string

type MessageType string

const (
	TypeText   MessageType = "text"
	TypeImage  MessageType = "image"
	TypeVideo  MessageType = "video"
	TypeFile   MessageType = "file"
	TypeSystem MessageType = "system"
)

func (t MessageType) Valid() bool {
	switch t {
	case TypeText, TypeImage, TypeVideo, TypeFile, TypeSystem:
		return true
	}
	return false
}

// HasMedia is true for types that carry a media descriptor instead of text.
func (t MessageType) HasMedia() bool {
	return t == TypeImage || t == TypeVideo || t == TypeFile
}

type Media struct {
	URL          string `json:"url"`
	FileType     string `json:"fileType"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
}

// Message belongs to exactly one room or one DM conversation, never both.
type Message struct {
	ID        MessageID   `json:"id"`
	RoomID    *RoomID     `json:"roomId,omitempty"`
	DMID      *DMID       `json:"dmId,omitempty"`
	SenderID  UserID      `json:"senderId"`
	Type      MessageType `json:"type"`
	Text      string      `json:"text,omitempty"`
	Media     *Media      `json:"media,omitempty"`
	ReadBy    []UserID    `json:"readBy"`
	Lang      string      `json:"lang,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewMessage stamps a fresh message under parent. Type defaults to text.
func NewMessage(parent Parent, sender UserID, messageType MessageType, text string, media *Media, at time.Time) Message {
	if messageType == "" {
		messageType = TypeText
	}
	m := Message{
		ID:        MessageID(NewID()),
		SenderID:  sender,
		Type:      messageType,
		Text:      text,
		Media:     media,
		ReadBy:    []UserID{},
		CreatedAt: at,
	}
	switch parent.Kind {
	case KindRoom:
		roomID := RoomID(parent.ID)
		m.RoomID = &roomID
	case KindDM:
		dmID := DMID(parent.ID)
		m.DMID = &dmID
	}
	return m
}

func (m Message) Parent() Parent {
	if m.RoomID != nil {
		return RoomParent(*m.RoomID)
	}
	if m.DMID != nil {
		return DMParent(*m.DMID)
	}
	return Parent{}
}

// EnrichedMessage is a stored message joined with its sender's public profile for delivery.
type EnrichedMessage struct {
	Message
	Sender UserSummary `json:"sender"`
}

func Enrich(m Message, sender User) EnrichedMessage {
	return EnrichedMessage{Message: m, Sender: sender.Summary()}
}

// Cursor points at a message in a conversation. Messages stamped at the same instant
// are ordered by id, so paging needs both.
type Cursor struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        MessageID `json:"id,omitempty"`
}

// CursorOf returns the cursor of a stored message.
func CursorOf(m Message) Cursor {
	return Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
}

// MessagePage is a slice of history, oldest first, with the cursor to fetch older messages.
type MessagePage struct {
	Messages []EnrichedMessage `json:"messages"`
	Before   *Cursor           `json:"before,omitempty"`
}
