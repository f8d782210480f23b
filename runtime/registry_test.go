package runtime

import (
	"context"
	"synaptik/contract"
	"synaptik/domain"
	"synaptik/domain/event"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
	name string
}

func (s *Sink) Consume(_ context.Context, _ event.Outbound) error {
	return nil
}

func newConnID() domain.ConnID {
	return domain.ConnID(uuid.NewString())
}

func TestRegistry_Register_One_User_Two_Tabs(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	tab1, tab2 := newConnID(), newConnID()

	// Given no user is connected
	req.Zero(registry.Stats().Connections)

	// When alice opens two tabs
	first := registry.Register(tab1, "alice", &Sink{"tab1"})
	second := registry.Register(tab2, "alice", &Sink{"tab2"})

	// Then only the first one is the online transition
	req.True(first)
	req.False(second)
	req.Equal(2, registry.ConnectionCount("alice"))
	req.Equal(1, registry.Stats().Users)

	// When closing the tabs
	userID, last := registry.Unregister(tab1)
	req.Equal(domain.UserID("alice"), userID)
	req.False(last)
	userID, last = registry.Unregister(tab2)

	// Then only the last one is the offline transition
	req.Equal(domain.UserID("alice"), userID)
	req.True(last)
	req.Zero(registry.ConnectionCount("alice"))
}

func TestRegistry_Unregister_Unknown_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	userID, last := registry.Unregister(newConnID())

	req.Empty(userID)
	req.False(last)
}

func TestRegistry_Anonymous_Connection_Has_No_Presence(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn := newConnID()

	first := registry.Register(conn, "", &Sink{})

	req.False(first)
	req.Equal(1, registry.Stats().Connections)
	req.Zero(registry.Stats().Users)
	req.Len(registry.AllSinks(), 1)

	_, last := registry.Unregister(conn)
	req.False(last)
}

func TestRegistry_Join_One_Channel_Multiple_Connections(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	alice, bob := newConnID(), newConnID()
	aliceSink, bobSink := &Sink{"alice"}, &Sink{"bob"}
	key := domain.RoomParent("general").Key()
	registry.Register(alice, "alice", aliceSink)
	registry.Register(bob, "bob", bobSink)

	// When both join the room, alice twice
	req.True(registry.Join(alice, key))
	req.False(registry.Join(alice, key))
	req.True(registry.Join(bob, key))

	// Then the channel holds two sinks
	sinks := registry.SinksForChannel(key, "")
	req.Len(sinks, 2)
	req.Contains(sinks, aliceSink)
	req.Contains(sinks, bobSink)

	// And excluding alice leaves bob only
	req.Equal([]contract.EventSink{bobSink}, registry.SinksForChannel(key, alice))
	req.True(registry.IsJoined(alice, key))
}

func TestRegistry_Leave_Channel(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn := newConnID()
	key := domain.DMParent("dm-1").Key()
	registry.Register(conn, "alice", &Sink{})
	registry.Join(conn, key)

	// When leaving twice
	req.True(registry.Leave(conn, key))
	req.False(registry.Leave(conn, key))

	// Then the channel does not exist anymore
	req.Nil(registry.SinksForChannel(key, ""))
	req.Zero(registry.Stats().Channels)
	req.False(registry.IsJoined(conn, key))
}

func TestRegistry_Unregister_Leaves_Every_Channel(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn, other := newConnID(), newConnID()
	room, dm := domain.RoomParent("general").Key(), domain.DMParent("dm-1").Key()
	registry.Register(conn, "alice", &Sink{})
	registry.Register(other, "bob", &Sink{})
	registry.Join(conn, room)
	registry.Join(conn, dm)
	registry.Join(other, room)

	registry.Unregister(conn)

	req.Len(registry.SinksForChannel(room, ""), 1)
	req.Nil(registry.SinksForChannel(dm, ""))
	req.Equal(1, registry.Stats().Channels)
}

func TestRegistry_Join_Requires_Registration(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	req.False(registry.Join(newConnID(), domain.RoomParent("general").Key()))
	req.Zero(registry.Stats().Channels)
}

func TestRegistry_Concurrent_Registrations_Count_One_Online_Transition(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// Given fifty tabs of the same user connecting at once
	var wg sync.WaitGroup
	var mu sync.Mutex
	firsts := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if registry.Register(newConnID(), "alice", &Sink{}) {
				mu.Lock()
				firsts++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Then exactly one of them saw the user come online
	req.Equal(1, firsts)
	req.Equal(50, registry.ConnectionCount("alice"))
}
