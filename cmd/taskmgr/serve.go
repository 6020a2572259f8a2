package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/api"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/config"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/metrics"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/resources"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	store := cfg.LoadDatabase()
	defer store.Close()

	tokenServer := tokens.NewServer(cfg.Secrets())
	if tokenServer.RefreshFallback() {
		log.Println("WARNING: JWT_REFRESH_SECRET not set, refresh tokens are signed with JWT_SECRET")
	}

	svc := service.New(
		store.IdentityStore(),
		store.TaskStore(),
		tokenServer,
		tokenServer,
		service.PasswordModeProduction,
	)

	adminSecret, closeSecret, err := adminSecretSource(cfg)
	if err != nil {
		return err
	}
	defer closeSecret()
	if adminSecret.Secret() == "" {
		log.Println("WARNING: no admin creation secret configured, admin creation over HTTP is disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := api.New(svc,
		api.WithMetrics(metrics.New(registry)),
		api.WithAdminCreationSecret(adminSecret),
		api.WithSecureCookies(cfg.SecureCookies),
		api.WithCORSOrigin(cfg.CORSOrigin),
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Printf("listening on %s\n", server.Addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func adminSecretSource(cfg *config.Config) (api.SecretSource, func(), error) {
	if cfg.AdminCreationSecretFile == "" {
		return api.StaticSecret(cfg.AdminCreationSecret), func() {}, nil
	}

	secretFile, err := resources.NewSecretFile(cfg.AdminCreationSecretFile)
	if err != nil {
		return nil, nil, err
	}
	return secretFile, secretFile.Close, nil
}
