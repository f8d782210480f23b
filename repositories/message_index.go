//go:generate go run go.uber.org/mock/mockgen -source=message_index.go -destination=../mocks/mock_message_index.go -package=mocks
package repositories

import (
	"context"
	"log/slog"
	"synaptik/domain"

	"github.com/blugelabs/bluge"
)

const DefaultSearchLimit = 20

// IMessageIndex is the full-text side of the message store. It only holds ids,
// callers hydrate the hits from the message repository.
type IMessageIndex interface {
	Index(message domain.Message) error
	ClearParent(ctx context.Context, parent domain.Parent) (int, error)
	Search(ctx context.Context, parent domain.Parent, query string, limit int) ([]domain.MessageID, error)
}

type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) *MessageIndex {
	return &MessageIndex{writer: writer, log: log}
}

// Index adds or replaces the document of a message: {_id, channel, sender, text, createdAt}.
func (i *MessageIndex) Index(message domain.Message) error {
	text := message.Text
	if message.Media != nil {
		text += " " + message.Media.OriginalName
	}
	doc := bluge.NewDocument(string(message.ID)).
		AddField(bluge.NewKeywordField("channel", string(message.Parent().Key())).StoreValue()).
		AddField(bluge.NewKeywordField("sender", string(message.SenderID)).StoreValue()).
		AddField(bluge.NewTextField("text", text)).
		AddField(bluge.NewDateTimeField("createdAt", message.CreatedAt).StoreValue())
	return i.writer.Update(doc.ID(), doc)
}

// ClearParent deletes every document of a conversation and returns how many were removed.
func (i *MessageIndex) ClearParent(ctx context.Context, parent domain.Parent) (int, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return 0, err
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewTermQuery(string(parent.Key())).SetField("channel")
	ids, err := collectIDs(ctx, reader, bluge.NewAllMatches(query))
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	batch := bluge.NewBatch()
	for _, id := range ids {
		batch.Delete(bluge.Identifier(id))
	}
	if err := i.writer.Batch(batch); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// Search matches query against message texts of one conversation, best hits first.
func (i *MessageIndex) Search(ctx context.Context, parent domain.Parent, query string, limit int) ([]domain.MessageID, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(string(parent.Key())).SetField("channel")).
		AddMust(bluge.NewMatchQuery(query).SetField("text"))
	return collectIDs(ctx, reader, bluge.NewTopNSearch(limit, q))
}

func collectIDs(ctx context.Context, reader *bluge.Reader, request bluge.SearchRequest) ([]domain.MessageID, error) {
	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}
	var ids []domain.MessageID
	match, err := matches.Next()
	for err == nil && match != nil {
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, domain.MessageID(value))
				return false
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		match, err = matches.Next()
	}
	return ids, err
}
