package domain

import (
	"time"
)

type DMID string

// DMConversation links exactly two users. The pair never changes once created.
type DMConversation struct {
	ID           DMID      `json:"id"`
	Participants [2]UserID `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewDMConversation(a, b UserID, at time.Time) DMConversation {
	first, second := orderPair(a, b)
	return DMConversation{
		ID:           DMID(NewID()),
		Participants: [2]UserID{first, second},
		CreatedAt:    at,
	}
}

func (d DMConversation) HasParticipant(userID UserID) bool {
	return d.Participants[0] == userID || d.Participants[1] == userID
}

// Other returns the participant that is not userID.
func (d DMConversation) Other(userID UserID) UserID {
	if d.Participants[0] == userID {
		return d.Participants[1]
	}
	return d.Participants[0]
}

func (d DMConversation) Parent() Parent {
	return DMParent(d.ID)
}

// PairKey identifies an unordered pair of users: PairKey(a, b) == PairKey(b, a).
func PairKey(a, b UserID) string {
	first, second := orderPair(a, b)
	return string(first) + ":" + string(second)
}

func orderPair(a, b UserID) (UserID, UserID) {
	if a <= b {
		return a, b
	}
	return b, a
}
