package domain

type ChannelKind string

const (
	KindRoom ChannelKind = "room"
	KindDM   ChannelKind = "dm"
)

// ChannelKey addresses a broadcast group. It is opaque outside the runtime layer.
type ChannelKey string

// Parent points at the conversation a message belongs to.
type Parent struct {
	Kind ChannelKind
	ID   string
}

func RoomParent(id RoomID) Parent {
	return Parent{Kind: KindRoom, ID: string(id)}
}

func DMParent(id DMID) Parent {
	return Parent{Kind: KindDM, ID: string(id)}
}

func (p Parent) Key() ChannelKey {
	return ChannelKey(string(p.Kind) + "_" + p.ID)
}

func (p Parent) String() string {
	return string(p.Key())
}

type ConnID string

// Session is the identity bound to one live connection. UserID is empty for anonymous connections.
type Session struct {
	ConnID ConnID
	UserID UserID
}

func (s Session) Authenticated() bool {
	return s.UserID != ""
}
