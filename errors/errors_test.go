package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIs_MatchesWrappedSentinel(t *testing.T) {
	req := require.New(t)
	err := fmt.Errorf("%w: room 42", ErrRoomNotFound)

	req.True(Is(err, ErrRoomNotFound))
	req.False(Is(err, ErrDMNotFound))
	req.True(Is(Join(ErrForbidden, err), ErrRoomNotFound))
}
