package adapter

import (
	"context"
	"sync"

	repository "github.com/iwoork/homeforpup-sub008/internal/repository/port"
)

// StaticUserRepository is an in-memory directory. Every lookup of an unsaved
// id misses, so the resolver falls back to placeholders.
type StaticUserRepository struct {
	mu    sync.RWMutex
	users map[string]repository.User
}

func NewStaticUserRepository(users ...repository.User) *StaticUserRepository {
	r := &StaticUserRepository{users: make(map[string]repository.User, len(users))}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

var _ repository.UserRepository = (*StaticUserRepository)(nil)

func (r *StaticUserRepository) FindByID(_ context.Context, id string) (*repository.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r *StaticUserRepository) Save(_ context.Context, u *repository.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}
