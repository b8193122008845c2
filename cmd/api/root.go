package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iwoork/homeforpup-sub008/internal/config"
)

var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "homeforpup-messaging",
	Short: "Messaging threads between breeders and adopters",
	Long: `Serves the messaging HTTP API, runs the thread repair worker and
carries the maintenance commands for the thread store and user directory.
Running without a subcommand starts the HTTP API.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("http.addr", v.GetString("http.addr"), "HTTP listen address")
	flags.String("redis.url", v.GetString("redis.url"), "Redis URL for the thread store, profile cache and task queue")
	flags.String("database.url", v.GetString("database.url"), "Postgres DSN for the user directory")
	flags.String("store.driver", v.GetString("store.driver"), "thread store: redis or memory")
	flags.String("directory.driver", v.GetString("directory.driver"), "user directory: postgres, sqlite or static")
	flags.String("nats.url", v.GetString("nats.url"), "NATS URL for drift events (empty disables)")

	for _, name := range []string{"http.addr", "redis.url", "database.url", "store.driver", "directory.driver", "nats.url"} {
		bindFlag(v, name)
	}

	rootCmd.AddCommand(serveCmd, workerCmd, migrateCmd, repairCmd)
}

func bindFlag(vp *viper.Viper, name string) {
	if err := vp.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
		log.Fatalf("bind flag %s: %v", name, err)
	}
}

func initConfig() {
	file, err := config.ReadFile(v)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if file != "" {
		log.Printf("Using config file: %s", file)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(v)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
