package runtime

import (
	"context"
	"log/slog"
	"synaptik/contract"
	"synaptik/domain"
	"synaptik/domain/event"
	"synaptik/errors"
	"synaptik/repositories"
)

const (
	joinedNotice = "A user joined the room"
	leftNotice   = "A user left the room"
)

// ChannelManager subscribes connections to conversations after checking they may see them.
type ChannelManager struct {
	log      *slog.Logger
	registry contract.IRegistry
	rooms    repositories.IRoomRepository
	dms      repositories.IDMRepository
	fanout   *EventFanout
}

func NewChannelManager(log *slog.Logger, registry contract.IRegistry, rooms repositories.IRoomRepository, dms repositories.IDMRepository, fanout *EventFanout) *ChannelManager {
	return &ChannelManager{log: log, registry: registry, rooms: rooms, dms: dms, fanout: fanout}
}

// JoinRoom subscribes the connection to a room. A private room is only open to its members.
// Joining again is a no-op and does not repeat the notice.
func (m *ChannelManager) JoinRoom(ctx context.Context, session domain.Session, roomID string) error {
	room, err := m.authorizeRoom(ctx, session, roomID)
	if err != nil {
		return err
	}
	key := room.Parent().Key()
	if m.registry.Join(session.ConnID, key) {
		m.Broadcast(ctx, key, event.System(joinedNotice), session.ConnID)
	}
	return nil
}

func (m *ChannelManager) LeaveRoom(ctx context.Context, session domain.Session, roomID string) error {
	if !domain.IsValidID(roomID) {
		return errors.ErrInvalidRoomID
	}
	key := domain.RoomParent(domain.RoomID(roomID)).Key()
	if m.registry.Leave(session.ConnID, key) {
		m.Broadcast(ctx, key, event.System(leftNotice), session.ConnID)
	}
	return nil
}

// JoinDM subscribes the connection to a DM conversation it takes part in.
func (m *ChannelManager) JoinDM(ctx context.Context, session domain.Session, dmID string) error {
	dm, err := m.authorizeDM(ctx, session, dmID)
	if err != nil {
		return err
	}
	m.registry.Join(session.ConnID, dm.Parent().Key())
	return nil
}

// Broadcast delivers to every connection of the channel except exclude.
func (m *ChannelManager) Broadcast(ctx context.Context, key domain.ChannelKey, out event.Outbound, exclude domain.ConnID) int {
	return m.fanout.Deliver(ctx, m.registry.SinksForChannel(key, exclude), out)
}

func (m *ChannelManager) BroadcastAll(ctx context.Context, out event.Outbound) int {
	return m.fanout.Deliver(ctx, m.registry.AllSinks(), out)
}

// Joined reports whether the connection subscribed to the parent's channel.
func (m *ChannelManager) Joined(session domain.Session, parent domain.Parent) bool {
	return m.registry.IsJoined(session.ConnID, parent.Key())
}

func (m *ChannelManager) authorizeRoom(ctx context.Context, session domain.Session, roomID string) (domain.Room, error) {
	if !session.Authenticated() {
		return domain.Room{}, errors.ErrUnauthenticated
	}
	if !domain.IsValidID(roomID) {
		return domain.Room{}, errors.ErrInvalidRoomID
	}
	room, err := m.rooms.FindRoom(ctx, domain.RoomID(roomID))
	if err != nil {
		return domain.Room{}, err
	}
	if !room.CanJoin(session.UserID) {
		return domain.Room{}, errors.ErrForbidden
	}
	return room, nil
}

func (m *ChannelManager) authorizeDM(ctx context.Context, session domain.Session, dmID string) (domain.DMConversation, error) {
	if !session.Authenticated() {
		return domain.DMConversation{}, errors.ErrUnauthenticated
	}
	if !domain.IsValidID(dmID) {
		return domain.DMConversation{}, errors.ErrInvalidDMID
	}
	dm, err := m.dms.FindDM(ctx, domain.DMID(dmID))
	if err != nil {
		return domain.DMConversation{}, err
	}
	if !dm.HasParticipant(session.UserID) {
		return domain.DMConversation{}, errors.ErrForbidden
	}
	return dm, nil
}
