package main

import (
	"context"
	"fmt"
	"log"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/iwoork/homeforpup-sub008/internal/config"
	cacheAdapter "github.com/iwoork/homeforpup-sub008/internal/infrastructure/cache/adapter"
	"github.com/iwoork/homeforpup-sub008/internal/infrastructure/database"
	queueAdapter "github.com/iwoork/homeforpup-sub008/internal/infrastructure/queue/adapter"
	streamAdapter "github.com/iwoork/homeforpup-sub008/internal/infrastructure/stream/adapter"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/event"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/task"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
	chatAdapter "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/adapter"
	chatRepo "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/port"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/identity"
	userAdapter "github.com/iwoork/homeforpup-sub008/internal/repository/adapter"
	users "github.com/iwoork/homeforpup-sub008/internal/repository/port"
)

// deps holds everything the commands share plus the closers to release it,
// run in reverse order of acquisition.
type deps struct {
	redis    *redis.Client
	repo     chatRepo.ChatRepository
	resolver identity.Resolver
	drift    usecase.DriftReporter
	closers  []func()
}

func (d *deps) onClose(f func()) { d.closers = append(d.closers, f) }

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// openStore connects the thread store only.
func openStore(cfg *config.Config) (*deps, error) {
	d := &deps{}
	switch cfg.StoreDriver {
	case config.StoreRedis:
		client, err := cacheAdapter.Connect(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		d.redis = client
		d.onClose(func() { _ = client.Close() })
		d.repo = chatAdapter.NewRedisChatRepository(client)
	case config.StoreMemory:
		log.Printf("Warning: store.driver=memory, threads are lost on restart")
		d.repo = chatAdapter.NewMemoryChatRepository()
	default:
		return nil, fmt.Errorf("unknown store.driver %q", cfg.StoreDriver)
	}
	return d, nil
}

// buildDeps wires the thread store, the identity resolver and the drift
// reporters for the HTTP API.
func buildDeps(ctx context.Context, cfg *config.Config) (*deps, error) {
	d, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	dir, err := openDirectory(ctx, cfg, d)
	if err != nil {
		d.Close()
		return nil, err
	}
	var resolver identity.Resolver = identity.NewDirectoryResolver(dir)
	if d.redis != nil {
		resolver = identity.NewCachedResolver(resolver, cacheAdapter.NewRedisCacheFromClient(d.redis), cfg.DirectoryCacheTTL)
	}
	d.resolver = resolver

	var reporters usecase.MultiDriftReporter
	if cfg.NATSURL != "" {
		pub, err := streamAdapter.NewJetStreamPublisher(streamAdapter.StreamConfig{
			URL:           cfg.NATSURL,
			Stream:        cfg.NATSStream,
			SubjectPrefix: cfg.NATSSubjectPrefix,
		})
		if err != nil {
			d.Close()
			return nil, err
		}
		d.onClose(pub.Close)
		reporters = append(reporters, event.NewStreamDriftReporter(pub, cfg.NATSSubjectPrefix))
	}
	// the repair worker reads the shared store, which a memory store is not
	if d.redis != nil {
		client, err := queueAdapter.NewAsynqClient(cfg.RedisURL)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.onClose(func() { _ = client.Close() })
		reporters = append(reporters, task.NewQueueDriftReporter(client))
	}
	if len(reporters) > 0 {
		d.drift = reporters
	}
	return d, nil
}

func openDirectory(ctx context.Context, cfg *config.Config, d *deps) (users.UserRepository, error) {
	switch cfg.DirectoryDriver {
	case config.DirectoryPostgres:
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		pool, err := database.Connect(cctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		d.onClose(pool.Close)
		return userAdapter.NewPgUserRepository(pool), nil
	case config.DirectorySQLite:
		repo, err := userAdapter.NewSQLiteUserRepository(cfg.DirectorySQLitePath)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.DirectoryStatic:
		log.Printf("Warning: directory.driver=static, every participant gets a placeholder name")
		return userAdapter.NewStaticUserRepository(), nil
	default:
		return nil, fmt.Errorf("unknown directory.driver %q", cfg.DirectoryDriver)
	}
}
