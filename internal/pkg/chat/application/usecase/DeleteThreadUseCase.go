package usecase

import (
	"context"
	"fmt"
	"log"

	repository "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/port"
)

type DeleteThreadInput struct {
	CallerID string
	ThreadID string
}

// DeleteThreadUseCase removes a thread: the caller's messages, the canonical
// record and every projection. Deletes go out in atomic groups of at most
// repository.MaxBatchItems, one after the other. A failed group leaves the
// thread partially deleted; that is reported as drift and returned as a
// persistence error together with the count removed so far. Counts only
// include records that still existed, so a retry reports what it removed.
//
// Messages go first and the caller's own projection goes last, so a thread
// that is only partly gone is still reachable by the caller for a retry.
type DeleteThreadUseCase struct {
	Repo  repository.ChatRepository
	Drift DriftReporter
}

func NewDeleteThreadUseCase(repo repository.ChatRepository, drift DriftReporter) *DeleteThreadUseCase {
	return &DeleteThreadUseCase{Repo: repo, Drift: drift}
}

// Execute returns the number of records deleted.
func (uc *DeleteThreadUseCase) Execute(ctx context.Context, in DeleteThreadInput) (int, error) {
	if _, err := authorizeThread(ctx, uc.Repo, in.ThreadID, in.CallerID); err != nil {
		return 0, err
	}

	msgs, err := uc.Repo.ListMessages(ctx, in.ThreadID, 0)
	if err != nil {
		return 0, persistence(err)
	}
	projections, err := uc.Repo.ListThreadProjections(ctx, in.ThreadID)
	if err != nil {
		return 0, persistence(err)
	}

	items := make([]repository.ItemRef, 0, len(msgs)+len(projections)+2)
	skipped := 0
	for _, m := range msgs {
		if !m.Involves(in.CallerID) {
			skipped++
			continue
		}
		items = append(items, repository.ItemRef{Kind: repository.ItemMessage, ThreadID: in.ThreadID, ID: m.ID})
	}
	if skipped > 0 {
		log.Printf("messaging: delete thread %s: left %d messages not involving %s", in.ThreadID, skipped, in.CallerID)
	}
	items = append(items, repository.ItemRef{Kind: repository.ItemThread, ThreadID: in.ThreadID})
	for _, p := range projections {
		if p.OwnerID == in.CallerID {
			continue
		}
		items = append(items, repository.ItemRef{Kind: repository.ItemProjection, ThreadID: in.ThreadID, ID: p.OwnerID})
	}
	items = append(items, repository.ItemRef{Kind: repository.ItemProjection, ThreadID: in.ThreadID, ID: in.CallerID})

	deleted := 0
	for start := 0; start < len(items); start += repository.MaxBatchItems {
		end := start + repository.MaxBatchItems
		if end > len(items) {
			end = len(items)
		}
		n, err := uc.Repo.DeleteItems(ctx, items[start:end])
		if err != nil {
			record := fmt.Sprintf("items %d-%d of %d", start, end-1, len(items))
			reportDrift(ctx, uc.Drift, in.ThreadID, "delete_thread", record, err)
			return deleted, fmt.Errorf("%w: deleted %d of %d items: %v", ErrPersistence, deleted, len(items), err)
		}
		deleted += n
	}
	return deleted, nil
}
