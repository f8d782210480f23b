package workers

import (
	"context"
	"log/slog"
	"synaptik/domain"
	"synaptik/mocks"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestIndexerWorker_Applies_Jobs_In_Order(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	index := mocks.NewMockIMessageIndex(ctrl)
	jobs := make(chan domain.IndexJob, 10)

	room := domain.RoomParent("r1")
	message := domain.NewMessage(room, "alice", domain.TypeText, "hello", nil, time.Now())
	done := make(chan struct{})

	// Given a message then a clear of its room
	gomock.InOrder(
		index.EXPECT().Index(message).Return(nil),
		index.EXPECT().ClearParent(gomock.Any(), room).DoAndReturn(func(context.Context, domain.Parent) (int, error) {
			close(done)
			return 1, nil
		}),
	)
	jobs <- domain.IndexJob{Message: &message}
	jobs <- domain.IndexJob{Clear: &room}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = NewIndexerWorker(log, index, jobs).Run(ctx) }()

	// Then both are applied in order
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Indexer did not process the queue")
	}
}

func TestIndexerWorker_Survives_Index_Errors(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	index := mocks.NewMockIMessageIndex(ctrl)
	jobs := make(chan domain.IndexJob, 2)

	first := domain.NewMessage(domain.RoomParent("r1"), "alice", domain.TypeText, "a", nil, time.Now())
	second := domain.NewMessage(domain.RoomParent("r1"), "alice", domain.TypeText, "b", nil, time.Now())
	index.EXPECT().Index(first).Return(context.DeadlineExceeded)
	index.EXPECT().Index(second).Return(nil)
	jobs <- domain.IndexJob{Message: &first}
	jobs <- domain.IndexJob{Message: &second}
	close(jobs)

	// When the queue is drained and closed the worker returns cleanly
	err := NewIndexerWorker(log, index, jobs).Run(context.Background())

	req.NoError(err)
}
