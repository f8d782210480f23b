//go:generate go run go.uber.org/mock/mockgen -source=conversation_service.go -destination=../mocks/mock_conversation_service.go -package=mocks
package services

import (
	"context"
	"log/slog"
	"strings"
	"synaptik/contract"
	"synaptik/domain"
	"synaptik/errors"
	"synaptik/repositories"
)

const maxHistoryLimit = 200

// IConversationService reads and wipes the history of a room or a DM on behalf of a user.
type IConversationService interface {
	History(ctx context.Context, userID domain.UserID, parent domain.Parent, before *domain.Cursor, limit int) (domain.MessagePage, error)
	Search(ctx context.Context, userID domain.UserID, parent domain.Parent, query string, limit int) ([]domain.EnrichedMessage, error)
	Clear(ctx context.Context, userID domain.UserID, parent domain.Parent) error
}

type ConversationService struct {
	log      *slog.Logger
	rooms    repositories.IRoomRepository
	dms      repositories.IDMRepository
	users    repositories.IUserRepository
	messages repositories.IMessageRepository
	index    repositories.IMessageIndex
	clearer  contract.IChatClearer
}

func NewConversationService(log *slog.Logger, rooms repositories.IRoomRepository, dms repositories.IDMRepository,
	users repositories.IUserRepository, messages repositories.IMessageRepository,
	index repositories.IMessageIndex, clearer contract.IChatClearer) *ConversationService {
	return &ConversationService{
		log:      log,
		rooms:    rooms,
		dms:      dms,
		users:    users,
		messages: messages,
		index:    index,
		clearer:  clearer,
	}
}

// History returns a page oldest first. When the page is full, Before is the cursor for the previous one.
func (s *ConversationService) History(ctx context.Context, userID domain.UserID, parent domain.Parent, before *domain.Cursor, limit int) (domain.MessagePage, error) {
	if err := s.authorizeRead(ctx, userID, parent); err != nil {
		return domain.MessagePage{}, err
	}
	if limit <= 0 {
		limit = repositories.DefaultHistoryLimit
	}
	limit = min(limit, maxHistoryLimit)

	messages, err := s.messages.ListMessages(ctx, parent, before, limit)
	if err != nil {
		return domain.MessagePage{}, err
	}
	page := domain.MessagePage{Messages: s.enrich(ctx, messages)}
	if len(messages) == limit {
		oldest := domain.CursorOf(messages[0])
		page.Before = &oldest
	}
	return page, nil
}

// Search runs a full-text query within one conversation. Hits whose message was
// deleted since indexing are skipped.
func (s *ConversationService) Search(ctx context.Context, userID domain.UserID, parent domain.Parent, query string, limit int) ([]domain.EnrichedMessage, error) {
	if err := s.authorizeRead(ctx, userID, parent); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.EnrichedMessage{}, nil
	}
	ids, err := s.index.Search(ctx, parent, query, limit)
	if err != nil {
		return nil, err
	}
	messages := make([]domain.Message, 0, len(ids))
	for _, id := range ids {
		message, err := s.messages.FindMessage(ctx, id)
		if err != nil {
			s.log.Debug("Stale search hit", "message_id", id, "error", err)
			continue
		}
		messages = append(messages, message)
	}
	return s.enrich(ctx, messages), nil
}

// Clear goes through the live clearer so connected clients get the cleared signal.
func (s *ConversationService) Clear(ctx context.Context, userID domain.UserID, parent domain.Parent) error {
	return s.clearer.ClearChat(ctx, domain.Session{UserID: userID}, parent)
}

func (s *ConversationService) authorizeRead(ctx context.Context, userID domain.UserID, parent domain.Parent) error {
	switch parent.Kind {
	case domain.KindRoom:
		if !domain.IsValidID(parent.ID) {
			return errors.ErrInvalidRoomID
		}
		room, err := s.rooms.FindRoom(ctx, domain.RoomID(parent.ID))
		if err != nil {
			return err
		}
		if !room.CanJoin(userID) {
			return errors.ErrForbidden
		}
	case domain.KindDM:
		if !domain.IsValidID(parent.ID) {
			return errors.ErrInvalidDMID
		}
		dm, err := s.dms.FindDM(ctx, domain.DMID(parent.ID))
		if err != nil {
			return err
		}
		if !dm.HasParticipant(userID) {
			return errors.ErrForbidden
		}
	default:
		return errors.ErrInvalidSelector
	}
	return nil
}

// enrich joins each message with its sender. Senders are looked up once per call.
func (s *ConversationService) enrich(ctx context.Context, messages []domain.Message) []domain.EnrichedMessage {
	senders := make(map[domain.UserID]domain.User)
	enriched := make([]domain.EnrichedMessage, 0, len(messages))
	for _, message := range messages {
		sender, ok := senders[message.SenderID]
		if !ok {
			user, err := s.users.FindUser(ctx, message.SenderID)
			if err != nil {
				s.log.Debug("Sender not found", "user_id", message.SenderID, "error", err)
				user = domain.User{ID: message.SenderID}
			}
			senders[message.SenderID] = user
			sender = user
		}
		enriched = append(enriched, domain.Enrich(message, sender))
	}
	return enriched
}
