package runtime

import (
	"context"
	"log/slog"
	"synaptik/contract"
	"synaptik/domain"
	"synaptik/domain/event"
	"synaptik/repositories"
	"time"
)

// ConnectionLifecycle turns connection churn into presence.
//
// A user is online while at least one of their connections is live. For one user,
// the refcount transition, the store write and the broadcast enqueue happen under the
// same per-user lock, so two tabs racing can never publish online after offline.
type ConnectionLifecycle struct {
	log      *slog.Logger
	registry contract.IRegistry
	users    repositories.IUserRepository
	fanout   *EventFanout
	presence *KeyedLocker[domain.UserID]
	now      func() time.Time
}

var _ contract.IConnectionLifecycle = (*ConnectionLifecycle)(nil)

func NewConnectionLifecycle(log *slog.Logger, registry contract.IRegistry, users repositories.IUserRepository, fanout *EventFanout) *ConnectionLifecycle {
	return &ConnectionLifecycle{
		log:      log,
		registry: registry,
		users:    users,
		fanout:   fanout,
		presence: NewKeyedLocker[domain.UserID](),
		now:      time.Now,
	}
}

func (c *ConnectionLifecycle) OnConnect(ctx context.Context, session domain.Session, sink contract.EventSink) {
	if !session.Authenticated() {
		c.registry.Register(session.ConnID, "", sink)
		c.log.Debug("Anonymous connection registered", "conn", session.ConnID)
		return
	}
	unlock := c.presence.Lock(session.UserID)
	defer unlock()

	if first := c.registry.Register(session.ConnID, session.UserID, sink); !first {
		return
	}
	if err := c.users.UpdateUserPresence(ctx, session.UserID, domain.Presence{Online: true}); err != nil {
		c.log.Error("Unable to mark user online", "user", session.UserID, "error", err)
	}
	c.fanout.Deliver(ctx, c.registry.AllSinks(), event.Presence(true, session.UserID))
	c.log.Debug("User online", "user", session.UserID)
}

func (c *ConnectionLifecycle) OnDisconnect(ctx context.Context, connID domain.ConnID) {
	session, ok := c.registry.Lookup(connID)
	if !ok {
		return
	}
	if !session.Authenticated() {
		c.registry.Unregister(connID)
		return
	}
	unlock := c.presence.Lock(session.UserID)
	defer unlock()

	userID, last := c.registry.Unregister(connID)
	if !last {
		return
	}
	lastSeen := c.now().UTC()
	if err := c.users.UpdateUserPresence(ctx, userID, domain.Presence{Online: false, LastSeen: &lastSeen}); err != nil {
		c.log.Error("Unable to mark user offline", "user", userID, "error", err)
	}
	c.fanout.Deliver(ctx, c.registry.AllSinks(), event.Presence(false, userID))
	c.log.Debug("User offline", "user", userID)
}
