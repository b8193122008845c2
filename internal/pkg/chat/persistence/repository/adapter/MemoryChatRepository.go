package adapter

import (
	"context"
	"fmt"
	"sort"
	"sync"

	chat "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/domain"
	repository "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/port"
)

// MemoryChatRepository keeps everything in process memory. Used by tests and
// by `serve` when store.driver=memory. Records are copied on the way in and
// out so callers never share maps with the store.
type MemoryChatRepository struct {
	mu          sync.RWMutex
	threads     map[string]chat.Thread
	projections map[string]map[string]chat.ThreadProjection // thread -> owner -> projection
	messages    map[string]map[string]chat.Message          // thread -> message id -> message
}

func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{
		threads:     make(map[string]chat.Thread),
		projections: make(map[string]map[string]chat.ThreadProjection),
		messages:    make(map[string]map[string]chat.Message),
	}
}

var _ repository.ChatRepository = (*MemoryChatRepository)(nil)

func (r *MemoryChatRepository) GetThread(_ context.Context, threadID string) (*chat.Thread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.threads[threadID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := t.Clone()
	return &out, nil
}

func (r *MemoryChatRepository) PutThread(_ context.Context, t chat.Thread) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threads[t.ID] = t.Clone()
	return nil
}

func (r *MemoryChatRepository) GetProjection(_ context.Context, threadID string, ownerID string) (*chat.ThreadProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projections[threadID][ownerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyProjection(p)
	return &out, nil
}

func (r *MemoryChatRepository) PutProjection(_ context.Context, p chat.ThreadProjection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putProjectionLocked(p)
	return nil
}

func (r *MemoryChatRepository) ListThreadProjections(_ context.Context, threadID string) ([]chat.ThreadProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]chat.ThreadProjection, 0, len(r.projections[threadID]))
	for _, p := range r.projections[threadID] {
		out = append(out, copyProjection(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OwnerID < out[j].OwnerID })
	return out, nil
}

func (r *MemoryChatRepository) ListProjectionsByOwner(_ context.Context, ownerID string) ([]chat.ThreadProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []chat.ThreadProjection
	for _, byOwner := range r.projections {
		if p, ok := byOwner[ownerID]; ok {
			out = append(out, copyProjection(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := out[i].RecencyKey(), out[j].RecencyKey()
		if ki.Equal(kj) {
			return out[i].ID > out[j].ID
		}
		return ki.After(kj)
	})
	return out, nil
}

func (r *MemoryChatRepository) AppendMessage(_ context.Context, m chat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendMessageLocked(m)
	return nil
}

func (r *MemoryChatRepository) ListMessages(_ context.Context, threadID string, limit int) ([]chat.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]chat.Message, 0, len(r.messages[threadID]))
	for _, m := range r.messages[threadID] {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryChatRepository) MarkMessagesRead(_ context.Context, threadID string, messageIDs []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, id := range messageIDs {
		m, ok := r.messages[threadID][id]
		if !ok || m.Read {
			continue
		}
		m.Read = true
		r.messages[threadID][id] = m
		n++
	}
	return n, nil
}

func (r *MemoryChatRepository) CreateThread(_ context.Context, t chat.Thread, projections []chat.ThreadProjection, first chat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threads[t.ID] = t.Clone()
	for _, p := range projections {
		r.putProjectionLocked(p)
	}
	r.appendMessageLocked(first)
	return nil
}

func (r *MemoryChatRepository) DeleteItems(_ context.Context, items []repository.ItemRef) (int, error) {
	if len(items) > repository.MaxBatchItems {
		return 0, fmt.Errorf("%w: %d items", repository.ErrBatchTooLarge, len(items))
	}
	for _, it := range items {
		switch it.Kind {
		case repository.ItemThread, repository.ItemProjection, repository.ItemMessage:
		default:
			return 0, fmt.Errorf("memory repository: unknown item kind %q", it.Kind)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, it := range items {
		switch it.Kind {
		case repository.ItemThread:
			if _, ok := r.threads[it.ThreadID]; ok {
				delete(r.threads, it.ThreadID)
				n++
			}
		case repository.ItemProjection:
			if _, ok := r.projections[it.ThreadID][it.ID]; ok {
				delete(r.projections[it.ThreadID], it.ID)
				n++
			}
			if len(r.projections[it.ThreadID]) == 0 {
				delete(r.projections, it.ThreadID)
			}
		case repository.ItemMessage:
			if _, ok := r.messages[it.ThreadID][it.ID]; ok {
				delete(r.messages[it.ThreadID], it.ID)
				n++
			}
			if len(r.messages[it.ThreadID]) == 0 {
				delete(r.messages, it.ThreadID)
			}
		}
	}
	return n, nil
}

func (r *MemoryChatRepository) putProjectionLocked(p chat.ThreadProjection) {
	byOwner, ok := r.projections[p.ID]
	if !ok {
		byOwner = make(map[string]chat.ThreadProjection, 2)
		r.projections[p.ID] = byOwner
	}
	byOwner[p.OwnerID] = copyProjection(p)
}

func (r *MemoryChatRepository) appendMessageLocked(m chat.Message) {
	byID, ok := r.messages[m.ThreadID]
	if !ok {
		byID = make(map[string]chat.Message)
		r.messages[m.ThreadID] = byID
	}
	byID[m.ID] = m
}

func copyProjection(p chat.ThreadProjection) chat.ThreadProjection {
	return chat.ThreadProjection{Thread: p.Thread.Clone(), OwnerID: p.OwnerID}
}
