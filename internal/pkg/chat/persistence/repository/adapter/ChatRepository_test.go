package adapter

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"

	chat "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/domain"
	repository "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/port"
)

var base = time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

// Every adapter must satisfy the same contract.
func adapters(t *testing.T) map[string]repository.ChatRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return map[string]repository.ChatRepository{
		"redis":  NewRedisChatRepository(client),
		"memory": NewMemoryChatRepository(),
	}
}

func seedThread(t *testing.T, repo repository.ChatRepository, id string, at time.Time) chat.Thread {
	t.Helper()
	first := chat.Message{
		ID: id + "-m0", ThreadID: id,
		SenderID: "alice", SenderName: "Alice",
		ReceiverID: "bob", ReceiverName: "Bob",
		Subject: "About " + id, Content: "hello", Timestamp: at,
		MessageType: chat.MessageTypeInquiry,
	}
	th, err := chat.NewThread(id, first.Subject,
		chat.ParticipantInfo{UserID: "alice", Name: "Alice"},
		chat.ParticipantInfo{UserID: "bob", Name: "Bob"}, first)
	if err != nil {
		t.Fatalf("NewThread: %v", err)
	}
	if err := repo.CreateThread(context.Background(), th, th.Projections(), first); err != nil {
		t.Fatalf("CreateThread: %v", err)
	}
	return th
}

func TestCreateThreadWritesEverything(t *testing.T) {
	for name, repo := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			th := seedThread(t, repo, "t1", base)

			got, err := repo.GetThread(ctx, "t1")
			if err != nil {
				t.Fatalf("GetThread: %v", err)
			}
			if got.Subject != th.Subject || got.UnreadCount["bob"] != 1 || !got.UpdatedAt.Equal(base) {
				t.Fatalf("thread = %+v", got)
			}

			for _, owner := range []string{"alice", "bob"} {
				p, err := repo.GetProjection(ctx, "t1", owner)
				if err != nil {
					t.Fatalf("GetProjection(%s): %v", owner, err)
				}
				if p.OwnerID != owner || p.LastMessage.ID != "t1-m0" {
					t.Fatalf("projection = %+v", p)
				}
			}

			ps, err := repo.ListThreadProjections(ctx, "t1")
			if err != nil || len(ps) != 2 {
				t.Fatalf("ListThreadProjections = %d, %v", len(ps), err)
			}

			msgs, err := repo.ListMessages(ctx, "t1", 0)
			if err != nil || len(msgs) != 1 || msgs[0].MessageType != chat.MessageTypeInquiry {
				t.Fatalf("ListMessages = %+v, %v", msgs, err)
			}
		})
	}
}

func TestMissingRecordsAreNotFound(t *testing.T) {
	for name, repo := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := repo.GetThread(ctx, "nope"); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("GetThread err = %v", err)
			}
			if _, err := repo.GetProjection(ctx, "nope", "alice"); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("GetProjection err = %v", err)
			}
			ps, err := repo.ListProjectionsByOwner(ctx, "alice")
			if err != nil || len(ps) != 0 {
				t.Fatalf("ListProjectionsByOwner = %v, %v", ps, err)
			}
		})
	}
}

func TestOwnerIndexOrdersByRecency(t *testing.T) {
	for name, repo := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedThread(t, repo, "old", base)
			seedThread(t, repo, "mid", base.Add(time.Hour))
			seedThread(t, repo, "new", base.Add(2*time.Hour))

			// bump "old" past the others, as a reply would
			p, err := repo.GetProjection(ctx, "old", "bob")
			if err != nil {
				t.Fatal(err)
			}
			p.UpdatedAt = base.Add(3 * time.Hour)
			if err := repo.PutProjection(ctx, *p); err != nil {
				t.Fatal(err)
			}

			got, err := repo.ListProjectionsByOwner(ctx, "bob")
			if err != nil {
				t.Fatal(err)
			}
			var ids []string
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			if fmt.Sprint(ids) != "[old new mid]" {
				t.Fatalf("order = %v", ids)
			}

			// alice's index is untouched
			got, _ = repo.ListProjectionsByOwner(ctx, "alice")
			if len(got) != 3 || got[0].ID != "new" {
				t.Fatalf("alice order = %+v", got)
			}
		})
	}
}

func TestListMessagesNewestFirstWithLimit(t *testing.T) {
	for name, repo := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedThread(t, repo, "t1", base)
			for i := 1; i <= 4; i++ {
				m := chat.Message{
					ID: fmt.Sprintf("t1-m%d", i), ThreadID: "t1",
					SenderID: "bob", ReceiverID: "alice", Content: "reply",
					Timestamp: base.Add(time.Duration(i) * time.Minute),
				}
				if err := repo.AppendMessage(ctx, m); err != nil {
					t.Fatal(err)
				}
			}

			msgs, err := repo.ListMessages(ctx, "t1", 2)
			if err != nil {
				t.Fatal(err)
			}
			if len(msgs) != 2 || msgs[0].ID != "t1-m4" || msgs[1].ID != "t1-m3" {
				t.Fatalf("msgs = %+v", msgs)
			}

			all, _ := repo.ListMessages(ctx, "t1", 0)
			if len(all) != 5 || all[4].ID != "t1-m0" {
				t.Fatalf("all = %d", len(all))
			}
		})
	}
}

func TestMarkMessagesReadCountsFlips(t *testing.T) {
	for name, repo := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedThread(t, repo, "t1", base)

			n, err := repo.MarkMessagesRead(ctx, "t1", []string{"t1-m0", "missing"})
			if err != nil || n != 1 {
				t.Fatalf("first mark = %d, %v", n, err)
			}
			n, err = repo.MarkMessagesRead(ctx, "t1", []string{"t1-m0"})
			if err != nil || n != 0 {
				t.Fatalf("second mark = %d, %v", n, err)
			}
			msgs, _ := repo.ListMessages(ctx, "t1", 0)
			if !msgs[0].Read {
				t.Fatal("message not marked read")
			}
		})
	}
}

func TestDeleteItemsRemovesRecordsAndIndexes(t *testing.T) {
	for name, repo := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedThread(t, repo, "t1", base)
			seedThread(t, repo, "t2", base.Add(time.Minute))

			items := []repository.ItemRef{
				{Kind: repository.ItemMessage, ThreadID: "t1", ID: "t1-m0"},
				{Kind: repository.ItemThread, ThreadID: "t1"},
				{Kind: repository.ItemProjection, ThreadID: "t1", ID: "alice"},
				{Kind: repository.ItemProjection, ThreadID: "t1", ID: "bob"},
			}
			n, err := repo.DeleteItems(ctx, items)
			if err != nil || n != 4 {
				t.Fatalf("DeleteItems = %d, %v", n, err)
			}
			// a repeat finds nothing left to remove
			if n, err := repo.DeleteItems(ctx, items); err != nil || n != 0 {
				t.Fatalf("repeat DeleteItems = %d, %v", n, err)
			}

			if _, err := repo.GetThread(ctx, "t1"); !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("thread survived: %v", err)
			}
			if msgs, _ := repo.ListMessages(ctx, "t1", 0); len(msgs) != 0 {
				t.Fatalf("messages survived: %d", len(msgs))
			}
			if ps, _ := repo.ListThreadProjections(ctx, "t1"); len(ps) != 0 {
				t.Fatalf("projections survived: %d", len(ps))
			}
			for _, owner := range []string{"alice", "bob"} {
				ps, _ := repo.ListProjectionsByOwner(ctx, owner)
				if len(ps) != 1 || ps[0].ID != "t2" {
					t.Fatalf("%s index = %+v", owner, ps)
				}
			}
		})
	}
}

func TestDeleteItemsRejectsOversizedBatch(t *testing.T) {
	for name, repo := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedThread(t, repo, "t1", base)

			items := make([]repository.ItemRef, repository.MaxBatchItems+1)
			for i := range items {
				items[i] = repository.ItemRef{Kind: repository.ItemMessage, ThreadID: "t1", ID: fmt.Sprintf("x%d", i)}
			}
			items[0] = repository.ItemRef{Kind: repository.ItemThread, ThreadID: "t1"}

			if _, err := repo.DeleteItems(ctx, items); !errors.Is(err, repository.ErrBatchTooLarge) {
				t.Fatalf("err = %v", err)
			}
			// nothing from the rejected batch was applied
			if _, err := repo.GetThread(ctx, "t1"); err != nil {
				t.Fatalf("thread deleted by rejected batch: %v", err)
			}
		})
	}
}

func TestDeleteItemsCountsOnlyExistingRecords(t *testing.T) {
	for name, repo := range adapters(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seedThread(t, repo, "t1", base)

			n, err := repo.DeleteItems(ctx, []repository.ItemRef{
				{Kind: repository.ItemMessage, ThreadID: "t1", ID: "t1-m0"},
				{Kind: repository.ItemMessage, ThreadID: "t1", ID: "never-sent"},
				{Kind: repository.ItemProjection, ThreadID: "t1", ID: "carol"},
				{Kind: repository.ItemProjection, ThreadID: "t1", ID: "bob"},
			})
			if err != nil || n != 2 {
				t.Fatalf("DeleteItems = %d, %v", n, err)
			}
		})
	}
}

func TestRedisListSkipsDanglingIndexEntries(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	repo := NewRedisChatRepository(client)
	ctx := context.Background()

	seedThread(t, repo, "t1", base)
	mr.Del(projectionKey("t1", "bob"))

	ps, err := repo.ListProjectionsByOwner(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 0 {
		t.Fatalf("dangling index entry returned: %+v", ps)
	}
}

func TestRedisNilClient(t *testing.T) {
	var repo *RedisChatRepository
	if _, err := repo.GetThread(context.Background(), "t1"); err == nil {
		t.Fatal("expected error from nil repository")
	}
}
