package main

import (
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iwoork/homeforpup-sub008/internal/config"
	queueAdapter "github.com/iwoork/homeforpup-sub008/internal/infrastructure/queue/adapter"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/task"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Process queued thread repairs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.StoreDriver != config.StoreRedis {
			return errors.New("worker needs store.driver=redis")
		}

		d, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer d.Close()

		srv, err := queueAdapter.NewAsynqServer(cfg.RedisURL, cfg.AsynqConcurrency, cfg.AsynqQueues)
		if err != nil {
			return err
		}
		task.RegisterRepairThreadTask(srv, usecase.NewRepairThreadUseCase(d.repo))

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		log.Printf("repair worker started (concurrency=%d queues=%s)", cfg.AsynqConcurrency, cfg.AsynqQueues)
		return srv.Run(ctx)
	},
}
