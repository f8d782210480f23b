package runtime

import (
	"context"
	"log/slog"
	"synaptik/contract"
	"synaptik/domain"
	"synaptik/domain/event"
	"synaptik/errors"
)

// SignalBroadcaster relays ephemeral signals and wipes conversations.
type SignalBroadcaster struct {
	log       *slog.Logger
	stores    Stores
	channels  *ChannelManager
	gates     *KeyedLocker[domain.ChannelKey]
	indexJobs chan<- domain.IndexJob
}

var _ contract.IChatClearer = (*SignalBroadcaster)(nil)

func NewSignalBroadcaster(log *slog.Logger, stores Stores, channels *ChannelManager, gates *KeyedLocker[domain.ChannelKey], indexJobs chan<- domain.IndexJob) *SignalBroadcaster {
	return &SignalBroadcaster{log: log, stores: stores, channels: channels, gates: gates, indexJobs: indexJobs}
}

// Typing relays typing_start or typing_stop to the other connections of a room
// the origin has joined. Nothing is stored.
func (s *SignalBroadcaster) Typing(ctx context.Context, session domain.Session, name event.Name, payload event.TypingPayload) error {
	if name != event.TypingStart && name != event.TypingStop {
		return errors.ErrUnknownEvent
	}
	if !domain.IsValidID(payload.RoomID) {
		return errors.ErrInvalidRoomID
	}
	parent := domain.RoomParent(domain.RoomID(payload.RoomID))
	if !s.channels.Joined(session, parent) {
		return errors.ErrForbidden
	}
	s.channels.Broadcast(ctx, parent.Key(), event.Outbound{Name: name, Payload: payload}, session.ConnID)
	return nil
}

// ClearChat deletes the whole history of a conversation, then tells the channel.
// Rooms are cleared by their owner or admins, DMs by either participant.
//
// The exclusive channel gate is held from the delete to the broadcast: any send that
// persisted before it has already been enqueued to every connection, and any send
// after it waits. A client therefore never receives a pre-clear message after the
// cleared signal. The origin connection is not notified, it already knows.
func (s *SignalBroadcaster) ClearChat(ctx context.Context, session domain.Session, parent domain.Parent) error {
	if err := s.authorizeClear(ctx, session, parent); err != nil {
		return err
	}
	key := parent.Key()
	release := s.gates.Lock(key)
	defer release()

	deleted, err := s.stores.Messages.DeleteMessagesFor(ctx, parent)
	if err != nil {
		s.log.Error("Unable to clear conversation", "parent", parent.String(), "error", err)
		return err
	}
	s.publishClear(parent)
	s.channels.Broadcast(ctx, key, event.ChatCleared(parent.Kind), session.ConnID)
	s.log.Info("Conversation cleared", "parent", parent.String(), "by", session.UserID, "deleted", deleted)
	return nil
}

// publishClear never waits on the indexer while the gate is held. Queue order keeps
// the clear ahead of later sends, and a dropped clear only leaves stale hits that
// search skips.
func (s *SignalBroadcaster) publishClear(parent domain.Parent) {
	if s.indexJobs == nil {
		return
	}
	select {
	case s.indexJobs <- domain.IndexJob{Clear: &parent}:
	default:
		s.log.Warn("Search index queue full, conversation not cleared from index", "parent", parent.String())
	}
}

func (s *SignalBroadcaster) authorizeClear(ctx context.Context, session domain.Session, parent domain.Parent) error {
	if !session.Authenticated() {
		return errors.ErrUnauthenticated
	}
	switch parent.Kind {
	case domain.KindRoom:
		if !domain.IsValidID(parent.ID) {
			return errors.ErrInvalidRoomID
		}
		room, err := s.stores.Rooms.FindRoom(ctx, domain.RoomID(parent.ID))
		if err != nil {
			return err
		}
		if !room.IsAdmin(session.UserID) {
			return errors.ErrForbidden
		}
	case domain.KindDM:
		if !domain.IsValidID(parent.ID) {
			return errors.ErrInvalidDMID
		}
		dm, err := s.stores.DMs.FindDM(ctx, domain.DMID(parent.ID))
		if err != nil {
			return err
		}
		if !dm.HasParticipant(session.UserID) {
			return errors.ErrForbidden
		}
	default:
		return errors.ErrInvalidSelector
	}
	return nil
}
