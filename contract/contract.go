//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"synaptik/domain"
	"synaptik/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is the write side of one live connection.
// Consume must not block: a slow connection loses frames, it never stalls a broadcast.
type EventSink interface {
	Consume(ctx context.Context, e event.Outbound) error
}

// IRegistry is the process-local table of live connections, their user and their channels.
// The number of connections of a user is the presence reference count.
type IRegistry interface {
	Register(connID domain.ConnID, userID domain.UserID, sink EventSink) (first bool)
	Unregister(connID domain.ConnID) (userID domain.UserID, last bool)
	Lookup(connID domain.ConnID) (domain.Session, bool)
	Join(connID domain.ConnID, key domain.ChannelKey) (added bool)
	Leave(connID domain.ConnID, key domain.ChannelKey) (removed bool)
	IsJoined(connID domain.ConnID, key domain.ChannelKey) bool
	SinksForChannel(key domain.ChannelKey, exclude domain.ConnID) []EventSink
	AllSinks() []EventSink
	ConnectionCount(userID domain.UserID) int
	Stats() RegistryStats
}

type RegistryStats struct {
	Connections int `json:"connections"`
	Users       int `json:"users"`
	Channels    int `json:"channels"`
}

// IConnectionLifecycle binds and releases identities as connections come and go.
type IConnectionLifecycle interface {
	OnConnect(ctx context.Context, session domain.Session, sink EventSink)
	OnDisconnect(ctx context.Context, connID domain.ConnID)
}

// IDispatcher routes one client frame. The returned outbound, if any, is the ack
// that must be written back to the same connection.
type IDispatcher interface {
	Dispatch(ctx context.Context, session domain.Session, frame event.Frame) *event.Outbound
}

// IChatClearer wipes a conversation and tells its channel.
type IChatClearer interface {
	ClearChat(ctx context.Context, session domain.Session, parent domain.Parent) error
}

type IRateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// ITextModerator censors a text and reports its detected language.
type ITextModerator interface {
	Moderate(text string) (sanitized string, lang string)
}

type IMailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
