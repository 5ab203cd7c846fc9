package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luminacommerce/copilot-actions/api/routes"
	"github.com/luminacommerce/copilot-actions/internal/cart"
	"github.com/luminacommerce/copilot-actions/internal/catalog"
	"github.com/luminacommerce/copilot-actions/internal/copilot"
	"github.com/luminacommerce/copilot-actions/internal/pincode"
	"github.com/luminacommerce/copilot-actions/pkg/commerce"
	"github.com/luminacommerce/copilot-actions/pkg/config"
	"github.com/luminacommerce/copilot-actions/pkg/instance"
	"github.com/luminacommerce/copilot-actions/pkg/logger"
	"github.com/luminacommerce/copilot-actions/pkg/metrics"
	"github.com/luminacommerce/copilot-actions/pkg/statestore"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "copilot-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "copilot-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := statestore.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap state store", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logg.Error(context.Background(), "error closing state store", err)
		}
	}()

	gateway, err := commerce.NewClient(cfg.Commerce.BaseURL,
		commerce.WithAPIToken(cfg.Commerce.APIToken),
		commerce.WithTimeout(cfg.Commerce.RequestTimeout),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create commerce client", err)
		os.Exit(1)
	}

	pincodes, err := pincode.NewResolver(gateway, cfg.Commerce.CountryISOCode)
	if err != nil {
		logg.Error(context.Background(), "failed to create pincode resolver", err)
		os.Exit(1)
	}
	catalogResolver, err := catalog.NewResolver(gateway)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog resolver", err)
		os.Exit(1)
	}
	mutator, err := cart.NewMutator(gateway, store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart mutator", err)
		os.Exit(1)
	}

	actionMetrics := metrics.NewActionMetrics(prometheus.DefaultRegisterer)

	dispatcher, err := copilot.NewDispatcher(
		gateway, store, pincodes, catalogResolver, mutator, actionMetrics, logg, cfg.Dispatch)
	if err != nil {
		logg.Error(context.Background(), "failed to create dispatcher", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting copilot api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dispatcher, store),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "copilot api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
