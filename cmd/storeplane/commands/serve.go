package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/storeplane/storeplane/internal/api"
	"github.com/storeplane/storeplane/internal/config"
	"github.com/storeplane/storeplane/internal/k8s"
	"github.com/storeplane/storeplane/internal/store"
)

// Serve returns the command that runs the control-plane API server.
func Serve() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the store provisioning API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg := config.Load()

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cluster, err := k8s.NewClient(cfg.Kubeconfig, cfg.BaseDomain, k8s.Timeouts{
		DatabaseReady:   cfg.Timeouts.DatabaseReady,
		DeploymentReady: cfg.Timeouts.DeploymentReady,
		StoreSetup:      cfg.Timeouts.StoreSetup,
	}, logger)
	if err != nil {
		return err
	}

	stores := store.NewService(store.NewMemoryRepository(), cluster,
		cfg.BaseDomain, cfg.Timeouts.DeploymentReady, logger)

	router := api.NewRouter(cfg, stores, cluster.Ping, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("storeplane starting",
		zap.String("port", cfg.Port), zap.String("base_domain", cfg.BaseDomain))

	if err := router.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("storeplane stopped")
	return nil
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
