package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"synaptik/contract"
	"synaptik/domain"
	"synaptik/domain/event"
	"synaptik/errors"
	"time"

	"github.com/gorilla/websocket"
)

// client is one live connection. It is the EventSink the runtime broadcasts to:
// Consume only enqueues, the write pump owns the socket writes.
type client struct {
	log        *slog.Logger
	conn       *websocket.Conn
	session    domain.Session
	dispatcher contract.IDispatcher
	metrics    Metrics
	timeouts   Timeouts
	send       chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

var _ contract.EventSink = (*client)(nil)

func newClient(log *slog.Logger, conn *websocket.Conn, session domain.Session, dispatcher contract.IDispatcher,
	metrics Metrics, timeouts Timeouts, bufferSize int) *client {
	return &client{
		log:        log.With("conn_id", session.ConnID, "user_id", session.UserID),
		conn:       conn,
		session:    session,
		dispatcher: dispatcher,
		metrics:    metrics,
		timeouts:   timeouts,
		send:       make(chan []byte, bufferSize),
		done:       make(chan struct{}),
	}
}

// Consume never blocks. A full queue loses the frame for this connection only.
func (c *client) Consume(_ context.Context, out event.Outbound) error {
	select {
	case <-c.done:
		return errors.ErrSinkClosed
	default:
	}
	data, err := out.Encode()
	if err != nil {
		return err
	}
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return errors.ErrSinkClosed
	default:
		c.metrics.IncrFramesDropped()
		return errors.ErrSinkFull
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// readPump handles frames one at a time, so a connection's sends are processed in submission order.
func (c *client) readPump(ctx context.Context, maxFrameSize int64) {
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.timeouts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.timeouts.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.log.Debug("Connection closed unexpectedly", "error", err)
			}
			return
		}
		c.metrics.IncrFramesReceived()

		var frame event.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.log.Debug("Unreadable frame dropped", "error", err)
			continue
		}

		ack := c.dispatcher.Dispatch(ctx, c.session, frame)
		if ack == nil {
			continue
		}
		if frame.Event == event.RoomMessageSend || frame.Event == event.DMMessageSend {
			if payload, ok := ack.Payload.(event.Ack); ok {
				c.metrics.IncrMessages(payload.OK)
			}
		}
		if err := c.Consume(ctx, *ack); err != nil {
			c.log.Debug("Ack dropped", "event", frame.Event, "error", err)
		}
	}
}

// writePump drains the queue in FIFO order and keeps the connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(c.timeouts.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeouts.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Debug("Write failed", "error", err)
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeouts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.timeouts.WriteWait))
			return
		}
	}
}
