package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-inventory-dashboard/components/dashboard"
	"github.com/goliatone/go-inventory-dashboard/components/dashboard/gorouter"
	"github.com/goliatone/go-inventory-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-inventory-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-inventory-dashboard/components/navigation"
	"github.com/goliatone/go-inventory-dashboard/components/session"
	"github.com/goliatone/go-inventory-dashboard/pkg/activity"
	"github.com/goliatone/go-inventory-dashboard/pkg/activity/usersink"
	"github.com/goliatone/go-inventory-dashboard/pkg/inventory"
	"github.com/goliatone/go-inventory-dashboard/pkg/storage/redisstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := NewLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("dashboardd stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	store, closeStore := newStateStore(ctx, cfg, logger)
	defer closeStore()

	registry := dashboard.NewRegistry()
	if err := dashboard.RegisterManifests(registry, cfg.Manifests...); err != nil {
		return err
	}

	catalogOpts := dashboard.CatalogOptions{
		Registry: registry,
		Cache:    dashboard.NewDescriptorCache(cfg.CatalogTTL),
		Logger:   logger,
	}
	var perms session.Permissions
	if cfg.BackendURL != "" {
		client, fetcher, err := connectBackend(ctx, cfg, logger)
		if err != nil {
			return err
		}
		go fetcher.Keep(ctx, cfg.SessionRetry)
		catalogOpts.Remote = client
		perms = fetcher.State()
	}

	broadcast := dashboard.NewBroadcastHook()
	telemetry := dashboard.NewSlogTelemetry(logger)
	service := dashboard.NewService(dashboard.Options{
		StateStore:     store,
		Catalog:        dashboard.NewCatalogLoader(catalogOpts),
		RefreshHook:    broadcast,
		Telemetry:      telemetry,
		ActivityHooks:  activity.Hooks{usersink.Hook{Sink: usersink.LogSink{Logger: logger}}},
		ActivityConfig: activity.Config{Enabled: cfg.Activity},
		Logger:         logger,
	})

	settings := navigation.SettingsMap{navigation.SettingBarcode: cfg.Barcode}
	drawer := navigation.NewDrawer(navigation.Options{
		State:        service,
		Settings:     settings,
		InstanceName: cfg.InstanceName,
	})

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:         server.Router(),
		Controller:     dashboard.NewController(service),
		API:            httpapi.NewCommandExecutor(service, telemetry),
		Navigation:     queries.NewNavigationOpenQuery(service),
		Validator:      service.LayoutValidator(),
		Broadcast:      broadcast,
		Drawer:         drawer,
		ViewerResolver: viewerResolver(perms, cfg.TrustUserHeader),
		BasePath:       cfg.BasePath,
	}); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dashboard server listening", slog.String("addr", cfg.Addr), slog.String("base", cfg.BasePath))
		errCh <- server.Serve(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("dashboard server stopped")
	return nil
}

func newStateStore(ctx context.Context, cfg *Config, logger *slog.Logger) (dashboard.StateStore, func()) {
	if cfg.RedisAddr == "" {
		logger.Info("using in-memory state store")
		return dashboard.NewInMemoryStateStore(), func() {}
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	store := redisstore.New(client, redisstore.Options{Prefix: cfg.RedisPrefix, TTL: cfg.RedisTTL})
	return store, func() {
		if err := client.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}
}

// connectBackend builds the backend client and hydrates the service account
// session. A failed first refresh is logged; Keep retries it later.
func connectBackend(ctx context.Context, cfg *Config, logger *slog.Logger) (*inventory.Client, *session.Fetcher, error) {
	client, err := inventory.NewClient(inventory.Config{
		BaseURL:   cfg.BackendURL,
		Token:     cfg.BackendToken,
		CSRFToken: cfg.BackendCSRF,
	})
	if err != nil {
		return nil, nil, err
	}
	fetcher := session.NewFetcher(session.NewState(client), client, logger)
	if err := fetcher.Refresh(ctx); err != nil {
		logger.Warn("backend session unavailable", slog.Any("error", err))
	}
	return client, fetcher, nil
}

// viewerResolver identifies viewers from the gorouter.LocalUserID local set by
// upstream auth middleware. X-User-ID is only honoured when trustHeader is set,
// i.e. behind a proxy that authenticates users. Otherwise every request acts as
// the backend service account. Permissions come from that account.
func viewerResolver(perms session.Permissions, trustHeader bool) gorouter.ViewerResolver {
	return func(ctx router.Context) dashboard.ViewerContext {
		viewer := dashboard.ViewerContext{
			Locale:      httpapi.PreferredLocale(ctx.Header("Accept-Language")),
			Permissions: perms,
		}
		if id, ok := ctx.Locals(gorouter.LocalUserID).(string); ok {
			viewer.UserID = id
		}
		if viewer.UserID == "" && trustHeader {
			viewer.UserID = strings.TrimSpace(ctx.Header("X-User-ID"))
		}
		if viewer.UserID == "" {
			if state, ok := perms.(*session.State); ok && state.UserID() != 0 {
				viewer.UserID = strconv.Itoa(state.UserID())
			}
		}
		return viewer
	}
}
