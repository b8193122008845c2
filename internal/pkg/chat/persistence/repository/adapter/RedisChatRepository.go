package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	redis "github.com/redis/go-redis/v9"

	chat "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/domain"
	repository "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/port"
)

// RedisChatRepository stores threads, projections and messages as JSON
// strings in Redis.
//
// Key layout (all under keyPrefix):
//
//	thread:{tid}                      canonical thread
//	thread:{tid}:projection:{owner}   participant projection
//	thread:{tid}:owners               SET of projection owners
//	user:{owner}:threads              ZSET tid -> recency (unix micros), the owner index
//	thread:{tid}:message:{mid}        message
//	thread:{tid}:messages             ZSET mid -> timestamp (unix micros), the log order
//
// Multi-key writes that must be atomic go through MULTI/EXEC.
type RedisChatRepository struct {
	client *redis.Client
}

const keyPrefix = "messaging:"

func NewRedisChatRepository(client *redis.Client) *RedisChatRepository {
	return &RedisChatRepository{client: client}
}

// Ensure interface compliance at compile time
var _ repository.ChatRepository = (*RedisChatRepository)(nil)

var errNilClient = errors.New("RedisChatRepository: nil client")

func threadKey(threadID string) string { return keyPrefix + "thread:" + threadID }
func projectionKey(threadID, ownerID string) string {
	return keyPrefix + "thread:" + threadID + ":projection:" + ownerID
}
func ownersKey(threadID string) string       { return keyPrefix + "thread:" + threadID + ":owners" }
func ownerIndexKey(ownerID string) string    { return keyPrefix + "user:" + ownerID + ":threads" }
func messageIndexKey(threadID string) string { return keyPrefix + "thread:" + threadID + ":messages" }
func messageKey(threadID, messageID string) string {
	return keyPrefix + "thread:" + threadID + ":message:" + messageID
}

func (r *RedisChatRepository) GetThread(ctx context.Context, threadID string) (*chat.Thread, error) {
	if r == nil || r.client == nil {
		return nil, errNilClient
	}
	var t chat.Thread
	if err := r.getJSON(ctx, threadKey(threadID), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *RedisChatRepository) PutThread(ctx context.Context, t chat.Thread) error {
	if r == nil || r.client == nil {
		return errNilClient
	}
	b, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("redis repository: encode thread: %w", err)
	}
	return r.client.Set(ctx, threadKey(t.ID), b, 0).Err()
}

func (r *RedisChatRepository) GetProjection(ctx context.Context, threadID string, ownerID string) (*chat.ThreadProjection, error) {
	if r == nil || r.client == nil {
		return nil, errNilClient
	}
	var p chat.ThreadProjection
	if err := r.getJSON(ctx, projectionKey(threadID, ownerID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RedisChatRepository) PutProjection(ctx context.Context, p chat.ThreadProjection) error {
	if r == nil || r.client == nil {
		return errNilClient
	}
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("redis repository: encode projection: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		queueProjection(ctx, pipe, p, b)
		return nil
	})
	return err
}

func (r *RedisChatRepository) ListThreadProjections(ctx context.Context, threadID string) ([]chat.ThreadProjection, error) {
	if r == nil || r.client == nil {
		return nil, errNilClient
	}
	owners, err := r.client.SMembers(ctx, ownersKey(threadID)).Result()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(owners))
	for _, o := range owners {
		keys = append(keys, projectionKey(threadID, o))
	}
	raw, err := r.mget(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make([]chat.ThreadProjection, 0, len(raw))
	for i, s := range raw {
		if s == "" {
			continue
		}
		var p chat.ThreadProjection
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			log.Printf("redis repository: skip corrupt projection %s: %v", keys[i], err)
			continue
		}
		if p.OwnerID == "" {
			p.OwnerID = owners[i]
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *RedisChatRepository) ListProjectionsByOwner(ctx context.Context, ownerID string) ([]chat.ThreadProjection, error) {
	if r == nil || r.client == nil {
		return nil, errNilClient
	}
	threadIDs, err := r.client.ZRevRange(ctx, ownerIndexKey(ownerID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(threadIDs))
	for _, tid := range threadIDs {
		keys = append(keys, projectionKey(tid, ownerID))
	}
	raw, err := r.mget(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make([]chat.ThreadProjection, 0, len(raw))
	for i, s := range raw {
		// index entries can outlive their projection after a partial delete
		if s == "" {
			continue
		}
		var p chat.ThreadProjection
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			log.Printf("redis repository: skip corrupt projection %s: %v", keys[i], err)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *RedisChatRepository) AppendMessage(ctx context.Context, m chat.Message) error {
	if r == nil || r.client == nil {
		return errNilClient
	}
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("redis repository: encode message: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		queueMessage(ctx, pipe, m, b)
		return nil
	})
	return err
}

func (r *RedisChatRepository) ListMessages(ctx context.Context, threadID string, limit int) ([]chat.Message, error) {
	if r == nil || r.client == nil {
		return nil, errNilClient
	}
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := r.client.ZRevRange(ctx, messageIndexKey(threadID), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	return r.loadMessages(ctx, threadID, ids)
}

func (r *RedisChatRepository) MarkMessagesRead(ctx context.Context, threadID string, messageIDs []string) (int, error) {
	if r == nil || r.client == nil {
		return 0, errNilClient
	}
	msgs, err := r.loadMessages(ctx, threadID, messageIDs)
	if err != nil {
		return 0, err
	}

	type update struct {
		key  string
		data []byte
	}
	var updates []update
	for _, m := range msgs {
		if m.Read {
			continue
		}
		m.Read = true
		b, err := json.Marshal(m)
		if err != nil {
			return 0, fmt.Errorf("redis repository: encode message: %w", err)
		}
		updates = append(updates, update{key: messageKey(threadID, m.ID), data: b})
	}
	if len(updates) == 0 {
		return 0, nil
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, u := range updates {
			pipe.Set(ctx, u.key, u.data, 0)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(updates), nil
}

func (r *RedisChatRepository) CreateThread(ctx context.Context, t chat.Thread, projections []chat.ThreadProjection, first chat.Message) error {
	if r == nil || r.client == nil {
		return errNilClient
	}
	tb, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("redis repository: encode thread: %w", err)
	}
	mb, err := json.Marshal(first)
	if err != nil {
		return fmt.Errorf("redis repository: encode message: %w", err)
	}
	pbs := make([][]byte, len(projections))
	for i, p := range projections {
		if pbs[i], err = json.Marshal(p); err != nil {
			return fmt.Errorf("redis repository: encode projection: %w", err)
		}
	}

	// Everything is encoded up front so EXEC only ever sees well-formed
	// commands; Redis applies the queued block as a unit.
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, threadKey(t.ID), tb, 0)
		for i, p := range projections {
			queueProjection(ctx, pipe, p, pbs[i])
		}
		queueMessage(ctx, pipe, first, mb)
		return nil
	})
	return err
}

func (r *RedisChatRepository) DeleteItems(ctx context.Context, items []repository.ItemRef) (int, error) {
	if r == nil || r.client == nil {
		return 0, errNilClient
	}
	if len(items) > repository.MaxBatchItems {
		return 0, fmt.Errorf("%w: %d items", repository.ErrBatchTooLarge, len(items))
	}
	if len(items) == 0 {
		return 0, nil
	}
	// one DEL per item on its record key; the index cleanups do not count
	dels := make([]*redis.IntCmd, 0, len(items))
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, it := range items {
			switch it.Kind {
			case repository.ItemThread:
				dels = append(dels, pipe.Del(ctx, threadKey(it.ThreadID)))
			case repository.ItemProjection:
				dels = append(dels, pipe.Del(ctx, projectionKey(it.ThreadID, it.ID)))
				pipe.SRem(ctx, ownersKey(it.ThreadID), it.ID)
				pipe.ZRem(ctx, ownerIndexKey(it.ID), it.ThreadID)
			case repository.ItemMessage:
				dels = append(dels, pipe.Del(ctx, messageKey(it.ThreadID, it.ID)))
				pipe.ZRem(ctx, messageIndexKey(it.ThreadID), it.ID)
			default:
				return fmt.Errorf("redis repository: unknown item kind %q", it.Kind)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	n := 0
	for _, cmd := range dels {
		n += int(cmd.Val())
	}
	return n, nil
}

func queueProjection(ctx context.Context, pipe redis.Pipeliner, p chat.ThreadProjection, data []byte) {
	pipe.Set(ctx, projectionKey(p.ID, p.OwnerID), data, 0)
	pipe.SAdd(ctx, ownersKey(p.ID), p.OwnerID)
	pipe.ZAdd(ctx, ownerIndexKey(p.OwnerID), redis.Z{
		Score:  float64(p.RecencyKey().UnixMicro()),
		Member: p.ID,
	})
}

func queueMessage(ctx context.Context, pipe redis.Pipeliner, m chat.Message, data []byte) {
	pipe.Set(ctx, messageKey(m.ThreadID, m.ID), data, 0)
	pipe.ZAdd(ctx, messageIndexKey(m.ThreadID), redis.Z{
		Score:  float64(m.Timestamp.UnixMicro()),
		Member: m.ID,
	})
}

func (r *RedisChatRepository) loadMessages(ctx context.Context, threadID string, ids []string) ([]chat.Message, error) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, messageKey(threadID, id))
	}
	raw, err := r.mget(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make([]chat.Message, 0, len(raw))
	for i, s := range raw {
		if s == "" {
			continue
		}
		var m chat.Message
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			log.Printf("redis repository: skip corrupt message %s: %v", keys[i], err)
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *RedisChatRepository) getJSON(ctx context.Context, key string, dst any) error {
	b, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("redis repository: decode %s: %w", key, err)
	}
	return nil
}

// mget returns one entry per key; absent keys come back as "".
func (r *RedisChatRepository) mget(ctx context.Context, keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[i] = s
		}
	}
	return out, nil
}
