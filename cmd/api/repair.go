package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/usecase"
)

var repairCmd = &cobra.Command{
	Use:   "repair-thread <thread-id>",
	Short: "Rebuild a thread's summary and projections from its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		d, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		out, err := usecase.NewRepairThreadUseCase(d.repo).Execute(ctx, usecase.RepairThreadInput{ThreadID: args[0]})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "repaired %s: %d messages, %d projections written\n",
			out.Thread.ID, out.Thread.MessageCount, out.Projections)
		return nil
	},
}
