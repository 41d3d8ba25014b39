package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/storekit/storefront/internal/stubapi"
)

func newServeCmd(log *logrus.Logger) *cobra.Command {
	var (
		addr string
		seed bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the in-memory stub of the store API for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := stubapi.NewStore()
			if seed {
				store.SeedDemoData()
			}

			srv := &http.Server{
				Addr:         addr,
				Handler:      stubapi.NewServer(store, log).Handler(),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 10 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.WithField("addr", addr).Info("stub store API listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-quit:
			case <-cmd.Context().Done():
			}

			log.Info("shutting down stub store API")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	cmd.Flags().BoolVar(&seed, "seed", true, "seed a small demo catalog")
	return cmd
}
