package runtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"synaptik/auth"
	"synaptik/contract"
	"synaptik/domain"
	"synaptik/domain/event"
	"synaptik/errors"

	"github.com/go-playground/validator/v10"
)

// Dispatcher routes client frames of one connection, in the order they were read.
type Dispatcher struct {
	log      *slog.Logger
	validate *validator.Validate
	channels *ChannelManager
	ingest   *IngestPipeline
	signals  *SignalBroadcaster
}

var _ contract.IDispatcher = (*Dispatcher)(nil)

func NewDispatcher(log *slog.Logger, channels *ChannelManager, ingest *IngestPipeline, signals *SignalBroadcaster) *Dispatcher {
	return &Dispatcher{
		log:      log,
		validate: auth.Validator(),
		channels: channels,
		ingest:   ingest,
		signals:  signals,
	}
}

// Dispatch handles one frame. The ack is only produced when the client asked for one.
func (d *Dispatcher) Dispatch(ctx context.Context, session domain.Session, frame event.Frame) *event.Outbound {
	var ack event.Ack
	switch frame.Event {
	case event.RoomMessageSend, event.DMMessageSend:
		var payload event.SendPayload
		if err := d.decode(frame, &payload); err != nil {
			ack = event.AckError(err)
			break
		}
		kind := domain.KindRoom
		if frame.Event == event.DMMessageSend {
			kind = domain.KindDM
		}
		ack = d.ingest.Send(ctx, session, kind, payload)
	case event.JoinRoom:
		ack = d.onRoom(frame, func(ref event.RoomRef) error {
			return d.channels.JoinRoom(ctx, session, ref.RoomID)
		})
	case event.LeaveRoom:
		ack = d.onRoom(frame, func(ref event.RoomRef) error {
			return d.channels.LeaveRoom(ctx, session, ref.RoomID)
		})
	case event.RoomClearChat:
		ack = d.onRoom(frame, func(ref event.RoomRef) error {
			return d.signals.ClearChat(ctx, session, domain.RoomParent(domain.RoomID(ref.RoomID)))
		})
	case event.JoinDM:
		ack = d.onDM(frame, func(ref event.DMRef) error {
			return d.channels.JoinDM(ctx, session, ref.DMID)
		})
	case event.DMClearChat:
		ack = d.onDM(frame, func(ref event.DMRef) error {
			return d.signals.ClearChat(ctx, session, domain.DMParent(domain.DMID(ref.DMID)))
		})
	case event.TypingStart, event.TypingStop:
		var payload event.TypingPayload
		err := d.decode(frame, &payload)
		if err == nil {
			err = d.signals.Typing(ctx, session, frame.Event, payload)
		}
		if err != nil {
			d.log.Debug("Typing signal ignored", "conn", session.ConnID, "error", err)
		}
		// typing is never acknowledged
		return nil
	default:
		ack = event.AckError(errors.ErrUnknownEvent)
	}

	if !ack.OK {
		d.log.Debug("Frame refused", "event", frame.Event, "conn", session.ConnID, "error", ack.Error)
	}
	if frame.AckID == nil {
		return nil
	}
	out := ack.Outbound(frame.AckID)
	return &out
}

func (d *Dispatcher) onRoom(frame event.Frame, handle func(ref event.RoomRef) error) event.Ack {
	var ref event.RoomRef
	if err := d.decode(frame, &ref); err != nil {
		return event.AckError(err)
	}
	if err := handle(ref); err != nil {
		return event.AckError(err)
	}
	return event.AckOK(nil)
}

func (d *Dispatcher) onDM(frame event.Frame, handle func(ref event.DMRef) error) event.Ack {
	var ref event.DMRef
	if err := d.decode(frame, &ref); err != nil {
		return event.AckError(err)
	}
	if err := handle(ref); err != nil {
		return event.AckError(err)
	}
	return event.AckOK(nil)
}

func (d *Dispatcher) decode(frame event.Frame, payload any) error {
	if len(frame.Data) == 0 {
		return errors.ErrInvalidPayload
	}
	if err := json.Unmarshal(frame.Data, payload); err != nil {
		return errors.ErrInvalidPayload
	}
	if err := d.validate.Struct(payload); err != nil {
		return errors.Join(errors.ErrInvalidPayload, err)
	}
	return nil
}
