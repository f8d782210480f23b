package repositories

import (
	"context"
	"synaptik/domain"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestScan_DescribesEveryNamespace(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := openDB(t)
	users := NewUserRepository(db, testLogger())
	rooms := NewRoomRepository(db, testLogger())
	messages := NewMessageRepository(db, testLogger())

	// Given a user, a room and a message
	alice := newUser("alice")
	req.NoError(users.CreateUser(ctx, alice))
	room := domain.NewRoom("general", "", "", false, alice.ID, time.Now().UTC())
	req.NoError(rooms.CreateRoom(ctx, room))
	_, err := messages.CreateMessage(ctx, domain.NewMessage(room.Parent(), alice.ID, domain.TypeText, "hello inspector", nil, time.Now().UTC()))
	req.NoError(err)

	// When every key is scanned
	records, err := Scan(db, "")
	req.NoError(err)

	// Then each document is readable
	kinds := map[string]string{}
	for _, r := range records {
		kinds[r.Kind] = r.Detail
	}
	req.Contains(kinds["USER"], "alice <alice@synaptik.dev>")
	req.Contains(kinds["ROOM"], "general private=false members=1")
	req.Equal("hello inspector", kinds["MESSAGE"])
	req.Contains(kinds, "INDEX")

	// And a prefix narrows the scan
	only, err := Scan(db, "msg:")
	req.NoError(err)
	req.Len(only, 1)
}

func TestDescribe_Undecodable(t *testing.T) {
	req := require.New(t)

	record := Describe("room:broken", []byte("{"))

	req.Equal("ROOM", record.Kind)
	req.Contains(record.Detail, "unmarshal failed")
}

func TestPing(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	ping := Ping(db)

	req.NoError(ping(context.Background()))
	req.NoError(db.Close())
	req.Error(ping(context.Background()))
}
