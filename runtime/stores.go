package runtime

import "synaptik/repositories"

// Stores groups the durable repositories the runtime reads and writes.
type Stores struct {
	Users    repositories.IUserRepository
	Rooms    repositories.IRoomRepository
	DMs      repositories.IDMRepository
	Messages repositories.IMessageRepository
}
