package runtime

import (
	"context"
	"log/slog"
	"synaptik/contract"
	"synaptik/domain"
	"synaptik/domain/event"
	"synaptik/repositories"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

// recordingSink keeps every event it receives, in order.
type recordingSink struct {
	mu     sync.Mutex
	events []event.Outbound
}

func (s *recordingSink) Consume(_ context.Context, e event.Outbound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *recordingSink) Events() []event.Outbound {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]event.Outbound(nil), s.events...)
}

func (s *recordingSink) Count(name event.Name) int {
	return lo.CountBy(s.Events(), func(e event.Outbound) bool { return e.Name == name })
}

// Presence lists the presence events received about one user.
func (s *recordingSink) Presence(userID domain.UserID) []event.Name {
	var names []event.Name
	for _, e := range s.Events() {
		if payload, ok := e.Payload.(event.PresencePayload); ok && payload.UserID == userID {
			names = append(names, e.Name)
		}
	}
	return names
}

// fixture wires the whole runtime on a real badger store.
type fixture struct {
	registry   *Registry
	stores     Stores
	channels   *ChannelManager
	ingest     *IngestPipeline
	signals    *SignalBroadcaster
	gates      *KeyedLocker[domain.ChannelKey]
	lifecycle  *ConnectionLifecycle
	dispatcher *Dispatcher
	indexJobs  chan domain.IndexJob
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := testLogger()
	stores := Stores{
		Users:    repositories.NewUserRepository(db, log),
		Rooms:    repositories.NewRoomRepository(db, log),
		DMs:      repositories.NewDMRepository(db, log),
		Messages: repositories.NewMessageRepository(db, log),
	}
	return wire(log, stores, nil)
}

func wire(log *slog.Logger, stores Stores, limiter contract.IRateLimiter) *fixture {
	registry := NewRegistry()
	fanout := NewEventFanout(log)
	gates := NewKeyedLocker[domain.ChannelKey]()
	indexJobs := make(chan domain.IndexJob, 1000)
	channels := NewChannelManager(log, registry, stores.Rooms, stores.DMs, fanout)
	ingest := NewIngestPipeline(log, stores, channels, gates, limiter, nil, indexJobs, 2000)
	signals := NewSignalBroadcaster(log, stores, channels, gates, indexJobs)
	return &fixture{
		registry:   registry,
		stores:     stores,
		channels:   channels,
		ingest:     ingest,
		signals:    signals,
		gates:      gates,
		lifecycle:  NewConnectionLifecycle(log, registry, stores.Users, fanout),
		dispatcher: NewDispatcher(log, channels, ingest, signals),
		indexJobs:  indexJobs,
	}
}

func (f *fixture) user(t *testing.T, username string) domain.User {
	t.Helper()
	user := domain.User{
		ID:          domain.UserID(domain.NewID()),
		Username:    username,
		Email:       username + "@synaptik.dev",
		DisplayName: username,
		Settings:    domain.DefaultSettings(),
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, f.stores.Users.CreateUser(context.Background(), user))
	return user
}

func (f *fixture) room(t *testing.T, name string, owner domain.UserID, private bool, members ...domain.UserID) domain.Room {
	t.Helper()
	room := domain.NewRoom(name, "", "general", private, owner, time.Now())
	for _, member := range members {
		room.AddMember(member)
	}
	require.NoError(t, f.stores.Rooms.CreateRoom(context.Background(), room))
	return room
}

func (f *fixture) connect(userID domain.UserID) (domain.Session, *recordingSink) {
	session := domain.Session{ConnID: newConnID(), UserID: userID}
	sink := &recordingSink{}
	f.lifecycle.OnConnect(context.Background(), session, sink)
	return session, sink
}

func (f *fixture) history(t *testing.T, parent domain.Parent) []domain.Message {
	t.Helper()
	messages, err := f.stores.Messages.ListMessages(context.Background(), parent, nil, 1000)
	require.NoError(t, err)
	return messages
}
