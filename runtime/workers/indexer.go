package workers

import (
	"context"
	"log/slog"
	"synaptik/contract"
	"synaptik/domain"
	"synaptik/repositories"
)

// IndexerWorker feeds the full-text index from the ingest queue.
// Jobs are applied in queue order, so a clear always lands after the messages it wipes.
type IndexerWorker struct {
	log   *slog.Logger
	index repositories.IMessageIndex
	jobs  <-chan domain.IndexJob
}

var _ contract.Worker = (*IndexerWorker)(nil)

func NewIndexerWorker(log *slog.Logger, index repositories.IMessageIndex, jobs <-chan domain.IndexJob) *IndexerWorker {
	return &IndexerWorker{log: log, index: index, jobs: jobs}
}

func (w *IndexerWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping indexer")
			return nil
		case job, ok := <-w.jobs:
			if !ok {
				return nil
			}
			w.apply(ctx, job)
		}
	}
}

// apply never fails the worker: a message missing from the index only degrades search.
func (w *IndexerWorker) apply(ctx context.Context, job domain.IndexJob) {
	switch {
	case job.Message != nil:
		if err := w.index.Index(*job.Message); err != nil {
			w.log.Error("Unable to index message", "message", job.Message.ID, "error", err)
		}
	case job.Clear != nil:
		deleted, err := w.index.ClearParent(ctx, *job.Clear)
		if err != nil {
			w.log.Error("Unable to clear index", "parent", job.Clear.String(), "error", err)
			return
		}
		w.log.Debug("Index cleared", "parent", job.Clear.String(), "documents", deleted)
	}
}
