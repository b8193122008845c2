package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	chat "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/domain"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/adapter"
	repository "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/port"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/identity"
	usersAdapter "github.com/iwoork/homeforpup-sub008/internal/repository/adapter"
	users "github.com/iwoork/homeforpup-sub008/internal/repository/port"
)

const (
	alice   = "user-alice01"
	bob     = "user-bob0002"
	mallory = "user-mallory"
)

var epoch = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// flakyRepo wraps a repository and fails selected writes.
type flakyRepo struct {
	repository.ChatRepository

	mu               sync.Mutex
	failProjectionOf string
	failThreadPut    bool
	failCreate       bool
	failDeleteCall   int // 1-based; 0 never fails
	deleteCalls      []int
	extraOwnerHits   []chat.ThreadProjection
	onMarkRead       func() // runs once, before the messages are flagged
}

var errInjected = errors.New("injected store failure")

func (f *flakyRepo) PutProjection(ctx context.Context, p chat.ThreadProjection) error {
	if f.failProjectionOf != "" && p.OwnerID == f.failProjectionOf {
		return errInjected
	}
	return f.ChatRepository.PutProjection(ctx, p)
}

func (f *flakyRepo) PutThread(ctx context.Context, t chat.Thread) error {
	if f.failThreadPut {
		return errInjected
	}
	return f.ChatRepository.PutThread(ctx, t)
}

func (f *flakyRepo) CreateThread(ctx context.Context, t chat.Thread, ps []chat.ThreadProjection, m chat.Message) error {
	if f.failCreate {
		return errInjected
	}
	return f.ChatRepository.CreateThread(ctx, t, ps, m)
}

func (f *flakyRepo) DeleteItems(ctx context.Context, items []repository.ItemRef) (int, error) {
	f.mu.Lock()
	f.deleteCalls = append(f.deleteCalls, len(items))
	call := len(f.deleteCalls)
	f.mu.Unlock()
	if call == f.failDeleteCall {
		return 0, errInjected
	}
	return f.ChatRepository.DeleteItems(ctx, items)
}

func (f *flakyRepo) MarkMessagesRead(ctx context.Context, threadID string, ids []string) (int, error) {
	if hook := f.onMarkRead; hook != nil {
		f.onMarkRead = nil
		hook()
	}
	return f.ChatRepository.MarkMessagesRead(ctx, threadID, ids)
}

func (f *flakyRepo) ListProjectionsByOwner(ctx context.Context, owner string) ([]chat.ThreadProjection, error) {
	ps, err := f.ChatRepository.ListProjectionsByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	return append(ps, f.extraOwnerHits...), nil
}

type recordingDrift struct {
	mu      sync.Mutex
	reports []DriftReport
}

func (r *recordingDrift) ReportDrift(_ context.Context, d DriftReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, d)
	return nil
}

type countingResolver struct {
	next  identity.Resolver
	calls map[string]int
}

func (c *countingResolver) Resolve(ctx context.Context, id string) (identity.Profile, error) {
	c.calls[id]++
	return c.next.Resolve(ctx, id)
}

type fixture struct {
	repo     *flakyRepo
	svc      *MessagingService
	repair   *RepairThreadUseCase
	drift    *recordingDrift
	resolver *countingResolver
	now      time.Time
	seq      int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := usersAdapter.NewStaticUserRepository(
		users.User{ID: alice, DisplayName: "Alice Parent", UserType: "dog-parent"},
		users.User{ID: bob, DisplayName: "Bob's Kennel", UserType: "breeder"},
	)
	f := &fixture{
		repo:  &flakyRepo{ChatRepository: adapter.NewMemoryChatRepository()},
		drift: &recordingDrift{},
		now:   epoch,
	}
	f.resolver = &countingResolver{next: identity.NewDirectoryResolver(dir), calls: map[string]int{}}
	f.svc = NewMessagingService(f.repo, f.resolver, f.drift)
	f.repair = NewRepairThreadUseCase(f.repo)

	clock := func() time.Time {
		f.now = f.now.Add(time.Second)
		return f.now
	}
	ids := func() string {
		f.seq++
		return fmt.Sprintf("id-%04d", f.seq)
	}
	f.svc.CreateThread.Now, f.svc.CreateThread.NewID = clock, ids
	f.svc.SendReply.Now, f.svc.SendReply.NewID = clock, ids
	f.svc.MarkThreadRead.Now = clock
	return f
}

func (f *fixture) create(t *testing.T, from, to string) *CreateThreadOutput {
	t.Helper()
	out, err := f.svc.CreateThread.Execute(context.Background(), CreateThreadInput{
		CallerID:    from,
		RecipientID: to,
		Subject:     "Puppy inquiry",
		Content:     "Is Max still available?",
		MessageType: "inquiry",
	})
	if err != nil {
		t.Fatalf("create thread: %v", err)
	}
	return out
}

func (f *fixture) reply(t *testing.T, from, to, threadID, content string) *chat.Message {
	t.Helper()
	m, err := f.svc.SendReply.Execute(context.Background(), SendReplyInput{
		CallerID: from, ThreadID: threadID, ReceiverID: to, Content: content,
	})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	return m
}

func (f *fixture) thread(t *testing.T, id string) chat.Thread {
	t.Helper()
	th, err := f.repo.GetThread(context.Background(), id)
	if err != nil {
		t.Fatalf("get thread: %v", err)
	}
	return *th
}

func (f *fixture) projection(t *testing.T, id, owner string) chat.ThreadProjection {
	t.Helper()
	p, err := f.repo.GetProjection(context.Background(), id, owner)
	if err != nil {
		t.Fatalf("get projection %s: %v", owner, err)
	}
	return *p
}
