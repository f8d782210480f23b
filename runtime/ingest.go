package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"synaptik/contract"
	"synaptik/domain"
	"synaptik/domain/event"
	"synaptik/errors"
	"time"
	"unicode/utf8"
)

// IngestPipeline turns a client send into a stored, enriched and broadcast message.
// Every step before the store write can reject the send, in which case nothing
// is persisted nor broadcast.
type IngestPipeline struct {
	log              *slog.Logger
	stores           Stores
	channels         *ChannelManager
	gates            *KeyedLocker[domain.ChannelKey]
	limiter          contract.IRateLimiter
	moderator        contract.ITextModerator
	indexJobs        chan<- domain.IndexJob
	maxContentLength int
	now              func() time.Time
}

func NewIngestPipeline(
	log *slog.Logger,
	stores Stores,
	channels *ChannelManager,
	gates *KeyedLocker[domain.ChannelKey],
	limiter contract.IRateLimiter,
	moderator contract.ITextModerator,
	indexJobs chan<- domain.IndexJob,
	maxContentLength int,
) *IngestPipeline {
	return &IngestPipeline{
		log:              log,
		stores:           stores,
		channels:         channels,
		gates:            gates,
		limiter:          limiter,
		moderator:        moderator,
		indexJobs:        indexJobs,
		maxContentLength: maxContentLength,
		now:              time.Now,
	}
}

// Send runs the whole pipeline and answers with the ack for the sender.
func (p *IngestPipeline) Send(ctx context.Context, session domain.Session, kind domain.ChannelKind, payload event.SendPayload) event.Ack {
	message, err := p.send(ctx, session, kind, payload)
	if err != nil {
		p.log.Debug("Message rejected", "user", session.UserID, "kind", kind, "error", err)
		return event.AckError(err)
	}
	return event.AckOK(&message)
}

func (p *IngestPipeline) send(ctx context.Context, session domain.Session, kind domain.ChannelKind, payload event.SendPayload) (domain.EnrichedMessage, error) {
	parent, messageType, err := p.validate(session, kind, payload)
	if err != nil {
		return domain.EnrichedMessage{}, err
	}
	if err := p.throttle(ctx, session.UserID); err != nil {
		return domain.EnrichedMessage{}, err
	}
	sender, err := p.stores.Users.FindUser(ctx, session.UserID)
	if err != nil {
		return domain.EnrichedMessage{}, err
	}
	if err := p.authorize(ctx, session.UserID, parent); err != nil {
		return domain.EnrichedMessage{}, err
	}

	text, lang := payload.Text, ""
	if p.moderator != nil && strings.TrimSpace(text) != "" {
		text, lang = p.moderator.Moderate(text)
	}

	// Shared gate: sends of one channel run concurrently, a clear waits for them
	// and no send starts while a clear is deleting. The message is stamped inside
	// the gate so a send that waited behind a clear is dated after it.
	release := p.gates.RLock(parent.Key())
	defer release()

	message := domain.NewMessage(parent, sender.ID, messageType, text, payload.Media, p.now().UTC())
	message.Lang = lang
	stored, err := p.stores.Messages.CreateMessage(ctx, message)
	if err != nil {
		p.log.Error("Unable to store message", "parent", parent.String(), "error", err)
		return domain.EnrichedMessage{}, err
	}
	enriched := domain.Enrich(stored, sender)
	p.channels.Broadcast(ctx, parent.Key(), event.MessageReceived(enriched), "")
	p.publish(stored)
	return enriched, nil
}

func (p *IngestPipeline) validate(session domain.Session, kind domain.ChannelKind, payload event.SendPayload) (domain.Parent, domain.MessageType, error) {
	if !session.Authenticated() {
		return domain.Parent{}, "", errors.ErrUnauthenticated
	}
	var parent domain.Parent
	switch kind {
	case domain.KindRoom:
		if payload.RoomID == "" || payload.DMID != "" {
			return domain.Parent{}, "", errors.ErrInvalidSelector
		}
		if !domain.IsValidID(payload.RoomID) {
			return domain.Parent{}, "", errors.ErrInvalidRoomID
		}
		parent = domain.RoomParent(domain.RoomID(payload.RoomID))
	case domain.KindDM:
		if payload.DMID == "" || payload.RoomID != "" {
			return domain.Parent{}, "", errors.ErrInvalidSelector
		}
		if !domain.IsValidID(payload.DMID) {
			return domain.Parent{}, "", errors.ErrInvalidDMID
		}
		parent = domain.DMParent(domain.DMID(payload.DMID))
	default:
		return domain.Parent{}, "", errors.ErrInvalidSelector
	}

	messageType := domain.MessageType(payload.Type)
	if messageType == "" {
		messageType = domain.TypeText
	}
	if !messageType.Valid() {
		return domain.Parent{}, "", errors.ErrInvalidMessageType
	}
	switch {
	case messageType.HasMedia():
		if payload.Media == nil || payload.Media.URL == "" {
			return domain.Parent{}, "", errors.ErrEmptyMessage
		}
	case strings.TrimSpace(payload.Text) == "":
		return domain.Parent{}, "", errors.ErrEmptyMessage
	}
	if p.maxContentLength > 0 && utf8.RuneCountInString(payload.Text) > p.maxContentLength {
		return domain.Parent{}, "", errors.ErrMessageTooLong
	}
	if payload.SenderID != "" && domain.UserID(payload.SenderID) != session.UserID {
		return domain.Parent{}, "", errors.ErrSenderMismatch
	}
	return parent, messageType, nil
}

// throttle fails open: a limiter outage must not silence the chat.
func (p *IngestPipeline) throttle(ctx context.Context, userID domain.UserID) error {
	if p.limiter == nil {
		return nil
	}
	allowed, err := p.limiter.Allow(ctx, fmt.Sprintf("send:%s", userID))
	if err != nil {
		p.log.Warn("Rate limiter unavailable", "error", err)
		return nil
	}
	if !allowed {
		return errors.ErrRateLimited
	}
	return nil
}

// authorize requires the parent to exist, and membership for private rooms and DMs.
func (p *IngestPipeline) authorize(ctx context.Context, userID domain.UserID, parent domain.Parent) error {
	switch parent.Kind {
	case domain.KindRoom:
		room, err := p.stores.Rooms.FindRoom(ctx, domain.RoomID(parent.ID))
		if err != nil {
			return err
		}
		if room.IsPrivate && !room.IsMember(userID) {
			return errors.ErrForbidden
		}
	case domain.KindDM:
		dm, err := p.stores.DMs.FindDM(ctx, domain.DMID(parent.ID))
		if err != nil {
			return err
		}
		if !dm.HasParticipant(userID) {
			return errors.ErrForbidden
		}
	}
	return nil
}

func (p *IngestPipeline) publish(message domain.Message) {
	if p.indexJobs == nil {
		return
	}
	select {
	case p.indexJobs <- domain.IndexJob{Message: &message}:
	default:
		p.log.Warn("Search index queue full, message not indexed", "message", message.ID)
	}
}
