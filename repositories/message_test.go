package repositories

import (
	"context"
	"synaptik/domain"
	"synaptik/errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

// messagesFor opens a message repository whose rooms and DMs already exist.
func messagesFor(t *testing.T, parents ...domain.Parent) (*MessageRepository, *badger.DB) {
	t.Helper()
	db := openDB(t)
	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		for _, parent := range parents {
			key := roomKey(domain.RoomID(parent.ID))
			if parent.Kind == domain.KindDM {
				key = dmKey(domain.DMID(parent.ID))
			}
			if err := txn.Set([]byte(key), []byte("{}")); err != nil {
				return err
			}
		}
		return nil
	}))
	return NewMessageRepository(db, testLogger()), db
}

func Test_Record_Multiple_Message(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	room := domain.RoomParent("room-1")
	repository, _ := messagesFor(t, room)

	// Given three messages of the same room stored out of order
	at := time.Now().UTC()
	messages := []domain.Message{
		domain.NewMessage(room, "alice", domain.TypeText, "first", nil, at),
		domain.NewMessage(room, "bob", domain.TypeText, "second", nil, at.Add(time.Minute)),
		domain.NewMessage(room, "clara", domain.TypeText, "third", nil, at.Add(2*time.Minute)),
	}
	for _, i := range []int{2, 0, 1} {
		_, err := repository.CreateMessage(ctx, messages[i])
		req.NoError(err)
	}

	// When fetching the history
	fetched, err := repository.ListMessages(ctx, room, nil, 0)

	// Then it comes back oldest first
	req.NoError(err)
	req.Len(fetched, 3)
	req.Equal("first", fetched[0].Text)
	req.Equal("second", fetched[1].Text)
	req.Equal("third", fetched[2].Text)
	req.Equal(messages[0].ID, fetched[0].ID)
}

func Test_Record_Multiple_Message_And_Limit(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	room := domain.RoomParent("room-1")
	repository, _ := messagesFor(t, room)

	at := time.Now().UTC()
	for i, text := range []string{"a", "b", "c"} {
		_, err := repository.CreateMessage(ctx, domain.NewMessage(room, "alice", domain.TypeText, text, nil, at.Add(time.Duration(i)*time.Minute)))
		req.NoError(err)
	}

	// When asking for two messages
	fetched, err := repository.ListMessages(ctx, room, nil, 2)

	// Then only the two newest are returned
	req.NoError(err)
	req.Len(fetched, 2)
	req.Equal("b", fetched[0].Text)
	req.Equal("c", fetched[1].Text)
}

func Test_List_Messages_Before_Cursor(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	room := domain.RoomParent("room-1")
	repository, _ := messagesFor(t, room)

	at := time.Now().UTC()
	var stored []domain.Message
	for i, text := range []string{"a", "b", "c", "d"} {
		m, err := repository.CreateMessage(ctx, domain.NewMessage(room, "alice", domain.TypeText, text, nil, at.Add(time.Duration(i)*time.Minute)))
		req.NoError(err)
		stored = append(stored, m)
	}

	// When paging before the third message
	cursor := domain.CursorOf(stored[2])
	fetched, err := repository.ListMessages(ctx, room, &cursor, 10)

	// Then the cursor itself is excluded
	req.NoError(err)
	req.Len(fetched, 2)
	req.Equal("a", fetched[0].Text)
	req.Equal("b", fetched[1].Text)
}

func Test_Messages_Are_Isolated_Per_Parent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository, _ := messagesFor(t, domain.RoomParent("r1"), domain.DMParent("r1"))

	at := time.Now().UTC()
	_, err := repository.CreateMessage(ctx, domain.NewMessage(domain.RoomParent("r1"), "alice", domain.TypeText, "room", nil, at))
	req.NoError(err)
	_, err = repository.CreateMessage(ctx, domain.NewMessage(domain.DMParent("r1"), "alice", domain.TypeText, "dm", nil, at))
	req.NoError(err)

	rooms, err := repository.ListMessages(ctx, domain.RoomParent("r1"), nil, 0)
	req.NoError(err)
	req.Len(rooms, 1)
	req.Equal("room", rooms[0].Text)
	req.NotNil(rooms[0].RoomID)
	req.Nil(rooms[0].DMID)
}

func Test_Create_Message_Rejects_Missing_Parent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository, db := messagesFor(t, domain.RoomParent("known"))
	at := time.Now().UTC()

	// When the room or the DM does not exist
	_, roomErr := repository.CreateMessage(ctx, domain.NewMessage(domain.RoomParent("ghost"), "alice", domain.TypeText, "orphan", nil, at))
	_, dmErr := repository.CreateMessage(ctx, domain.NewMessage(domain.DMParent("known"), "alice", domain.TypeText, "orphan", nil, at))
	_, selectorErr := repository.CreateMessage(ctx, domain.Message{ID: "x", SenderID: "alice", Text: "orphan"})

	// Then nothing is stored
	req.ErrorIs(roomErr, errors.ErrRoomNotFound)
	req.ErrorIs(dmErr, errors.ErrDMNotFound)
	req.ErrorIs(selectorErr, errors.ErrInvalidSelector)
	records, err := Scan(db, "msg")
	req.NoError(err)
	req.Empty(records)
}

func Test_List_Messages_Pages_Through_Same_Instant(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	room := domain.RoomParent("room-1")
	repository, _ := messagesFor(t, room)

	// Given five messages stamped at the very same nanosecond
	at := time.Now().UTC()
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		_, err := repository.CreateMessage(ctx, domain.NewMessage(room, "alice", domain.TypeText, text, nil, at))
		req.NoError(err)
	}

	// When paging two by two from the newest
	var texts []string
	var before *domain.Cursor
	for range 4 {
		page, err := repository.ListMessages(ctx, room, before, 2)
		req.NoError(err)
		if len(page) == 0 {
			break
		}
		for i := len(page) - 1; i >= 0; i-- {
			texts = append(texts, page[i].Text)
		}
		cursor := domain.CursorOf(page[0])
		before = &cursor
	}

	// Then every message shows up exactly once
	req.Equal([]string{"e", "d", "c", "b", "a"}, texts)

	// And a cursor without an id skips the whole instant
	page, err := repository.ListMessages(ctx, room, &domain.Cursor{CreatedAt: at}, 10)
	req.NoError(err)
	req.Empty(page)
}

func Test_Delete_Messages_For_Parent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	dm, other := domain.DMParent("dm-1"), domain.DMParent("dm-2")
	repository, _ := messagesFor(t, dm, other)

	// Given two messages in a DM and one in another DM
	at := time.Now().UTC()
	first, err := repository.CreateMessage(ctx, domain.NewMessage(dm, "alice", domain.TypeText, "hi", nil, at))
	req.NoError(err)
	_, err = repository.CreateMessage(ctx, domain.NewMessage(dm, "bob", domain.TypeText, "hello", nil, at.Add(time.Second)))
	req.NoError(err)
	_, err = repository.CreateMessage(ctx, domain.NewMessage(other, "bob", domain.TypeText, "kept", nil, at))
	req.NoError(err)

	// When clearing the first DM
	deleted, err := repository.DeleteMessagesFor(ctx, dm)

	// Then its history is empty and the other one is untouched
	req.NoError(err)
	req.Equal(2, deleted)
	remaining, err := repository.ListMessages(ctx, dm, nil, 0)
	req.NoError(err)
	req.Empty(remaining)
	_, err = repository.FindMessage(ctx, first.ID)
	req.Error(err)
	kept, err := repository.ListMessages(ctx, other, nil, 0)
	req.NoError(err)
	req.Len(kept, 1)

	// And clearing again is a no-op
	deleted, err = repository.DeleteMessagesFor(ctx, dm)
	req.NoError(err)
	req.Zero(deleted)
}

func Test_Find_Message_By_ID(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository, _ := messagesFor(t, domain.RoomParent("r1"))

	media := &domain.Media{URL: "/uploads/cat.png", FileType: "image/png", OriginalName: "cat.png", Size: 42}
	stored, err := repository.CreateMessage(ctx, domain.NewMessage(domain.RoomParent("r1"), "alice", domain.TypeImage, "", media, time.Now()))
	req.NoError(err)

	found, err := repository.FindMessage(ctx, stored.ID)

	req.NoError(err)
	req.Equal(domain.TypeImage, found.Type)
	req.Equal(media, found.Media)
	req.Empty(found.ReadBy)
}
