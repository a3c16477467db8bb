package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"boxd/internal/blobstore"
	"boxd/internal/config"
	"boxd/internal/server"
	"boxd/internal/sessions"
	"boxd/internal/store"
	"boxd/internal/thumbs"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the boxd API server and thumbnail workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			logger.Info("opening database", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			sessionStore, err := sessions.Open(cfg.SessionDBPath)
			if err != nil {
				return err
			}
			defer sessionStore.Close()

			blobs, err := blobstore.NewLocal(cfg.BlobRoot)
			if err != nil {
				return err
			}

			pipeline := thumbs.New(st, blobs, cfg.Thumbs.Workers, cfg.Thumbs.QueueSize,
				slog.Default().With("component", "thumbs"))
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			pipeline.Start(ctx)
			defer pipeline.Stop()

			sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour
			srv := server.New(addr, st, sessionStore, blobs, pipeline, sessionTTL, logger)
			return srv.ListenAndServe()
		},
	}
}
