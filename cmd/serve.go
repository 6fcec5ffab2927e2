/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"todo/api"
	"todo/logger"
	"todo/store"
	"todo/todo"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the todo host",
	Long: `todo serve command.

The serve command starts the host exposing the record store over HTTP.
With --db persistent the counter, the todos and the invocation events
are kept in a bbolt file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		dbType, _ := cmd.Flags().GetString("db")
		dbFile, _ := cmd.Flags().GetString("dbfile")
		level, _ := cmd.Flags().GetString("log-level")

		log, err := logger.New(level)
		if err != nil {
			return err
		}
		defer log.Sync()

		todos, events, closeDB, err := openStores(dbType, dbFile, log)
		if err != nil {
			return err
		}
		defer closeDB()

		log.Info("starting todo host",
			zap.String("db", dbType),
			zap.String("host", host),
			zap.Int("port", port),
		)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return api.New(host, port, todos, events, log).Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "Address to listen on")
	serveCmd.Flags().IntP("port", "p", 5555, "Port to listen on")
	serveCmd.Flags().String("db", "memory", "Storage backend: memory or persistent")
	serveCmd.Flags().String("dbfile", "todos.db", "bbolt file for the persistent backend")
	serveCmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
}

func openStores(dbType, dbFile string, log *zap.Logger) (*todo.Store, store.Store[todo.Event], func(), error) {
	if log == nil {
		log = zap.NewNop()
	}

	switch dbType {
	case "memory":
		return todo.NewInMemory(log), store.NewInMemoryStore[todo.Event](), func() {}, nil
	case "persistent":
	default:
		return nil, nil, nil, fmt.Errorf("unknown db type %q", dbType)
	}

	db, err := store.Open(dbFile, 0600)
	if err != nil {
		return nil, nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Error("closing database", zap.Error(err))
		}
	}

	todos, err := todo.NewPersistent(db, log)
	if err != nil {
		closeDB()
		return nil, nil, nil, err
	}
	events, err := store.NewPersistentStore[todo.Event](db, "events")
	if err != nil {
		closeDB()
		return nil, nil, nil, err
	}

	return todos, events, closeDB, nil
}
