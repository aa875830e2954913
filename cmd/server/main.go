package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"barbearia-backend/internal/catalog"
	"barbearia-backend/internal/config"
	"barbearia-backend/internal/db"
	"barbearia-backend/internal/docstore"
	"barbearia-backend/internal/handler"
	"barbearia-backend/internal/identity"
	"barbearia-backend/internal/observability"
	"barbearia-backend/internal/report"
	"barbearia-backend/internal/repository"
	"barbearia-backend/internal/server"
	"barbearia-backend/internal/service"
	firebase "firebase.google.com/go/v4"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	var app *firebase.App
	if cfg.UsesFirebase() {
		a, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, firebaseOptions(cfg)...)
		if err != nil {
			return fmt.Errorf("init firebase app: %w", err)
		}
		app = a
	}

	backend, err := openStore(ctx, cfg, app)
	if err != nil {
		return err
	}
	store := docstore.NewInstrumented(backend, metrics.Registerer())
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close store", "err", err)
		}
	}()
	logger.Info("document store ready", "driver", cfg.StoreDriver)

	// repositories
	productRepo := repository.ProductRepository{Store: store}
	serviceRepo := repository.ServiceRepository{Store: store}
	barberRepo := repository.BarberRepository{Store: store}
	resultRepo := repository.ProductionResultRepository{Store: store}
	saleRepo := repository.SaleRepository{Store: store}
	userRepo := repository.UserRepository{Store: store}

	if cfg.SeedCatalog {
		seedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		np, err := productRepo.SeedDefaults(seedCtx)
		if err == nil {
			var ns int
			ns, err = serviceRepo.SeedDefaults(seedCtx)
			logger.Info("catalog seeded", "products", np, "services", ns)
		}
		cancel()
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}

	extras, err := catalog.Load(cfg.ExtraServicesFile)
	if err != nil {
		return err
	}

	provider, err := openIdentity(ctx, cfg, app, userRepo, logger)
	if err != nil {
		return err
	}

	money, err := report.NewMoney(cfg.CurrencyCode)
	if err != nil {
		return err
	}
	exporter := report.Exporter{PDF: report.NewGotenberg(cfg.GotenbergURL), Money: money}

	// services
	authSvc := service.AuthService{Provider: provider, Barbers: barberRepo, ManagerEmails: cfg.ManagerEmails, Logger: logger}
	managerSvc := service.ManagerDashboardService{
		Products: productRepo,
		Services: serviceRepo,
		Barbers:  barberRepo,
		Results:  resultRepo,
		Sales:    saleRepo,
		Logger:   logger,
	}
	barberSvc := service.BarberDashboardService{Barbers: barberRepo, Results: resultRepo, Sales: saleRepo, Logger: logger}
	entrySvc := service.EntryService{
		Services: serviceRepo,
		Products: productRepo,
		Catalog:  extras,
		Logger:   logger,
		Recorder: service.EntryRecorder{
			Products: productRepo,
			Barbers:  barberRepo,
			Results:  resultRepo,
			Sales:    saleRepo,
			Logger:   logger,
		},
	}

	// handlers
	handlers := server.Handlers{
		Health:     handler.HealthHandler{Store: store},
		Auth:       handler.AuthHandler{Service: authSvc},
		Access:     handler.AccessHandler{IsManager: authSvc.IsManager},
		Barber:     handler.BarberHandler{Dashboard: barberSvc},
		Entries:    handler.EntryHandler{Service: entrySvc, Barbers: barberSvc, Metrics: metrics},
		Manager:    handler.ManagerHandler{Dashboard: managerSvc},
		Products:   handler.ProductHandler{Repo: productRepo, Dashboard: managerSvc},
		Services:   handler.ServiceCatalogHandler{Repo: serviceRepo, Dashboard: managerSvc},
		Barbers:    handler.BarberAdminHandler{Repo: barberRepo, Dashboard: managerSvc},
		Production: handler.ProductionHandler{Results: resultRepo, Sales: saleRepo},
		Reports:    handler.ReportHandler{Products: productRepo, Barbers: barberRepo, Exporter: exporter, Metrics: metrics, Logger: logger},
	}

	router := server.NewRouter(cfg, logger, metrics, authSvc, authSvc.IsManager, handlers)
	return server.Start(ctx, cfg, router, logger)
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if !cfg.IsProduction() {
		opts.Level = slog.LevelDebug
	}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func openStore(ctx context.Context, cfg config.Config, app *firebase.App) (docstore.Store, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pg, err := db.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s, err := docstore.NewPostgres(ctx, pg)
		if err != nil {
			pg.Close()
			return nil, err
		}
		return s, nil
	case config.StoreFirestore:
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("init firestore: %w", err)
		}
		return docstore.NewFirestore(client), nil
	default:
		return docstore.NewMemory(), nil
	}
}

func openIdentity(ctx context.Context, cfg config.Config, app *firebase.App, users repository.UserRepository, logger *slog.Logger) (identity.Provider, error) {
	if cfg.IdentityProvider == config.IdentityFirebase {
		admin, err := app.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("init firebase auth: %w", err)
		}
		toolkit, err := identity.NewToolkit(ctx, cfg.FirebaseAPIKey)
		if err != nil {
			return nil, fmt.Errorf("init identity toolkit: %w", err)
		}
		return identity.Firebase{Admin: admin, Passwords: toolkit}, nil
	}

	var revoked identity.RevocationList = identity.NewMemoryRevocations()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		revoked = identity.RedisRevocations{Client: client}
		logger.Info("token revocations in redis", "addr", cfg.RedisAddr)
	}
	return identity.NewLocal(users, cfg.JWTSecret, cfg.AccessTokenTTL, revoked), nil
}

func firebaseOptions(cfg config.Config) []option.ClientOption {
	if cfg.FirebaseCredFile == "" {
		return nil
	}

	cred := cfg.FirebaseCredFile
	// Allow inline JSON or base64-encoded JSON in env to avoid writing a file.
	if strings.HasPrefix(strings.TrimSpace(cred), "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cred))}
	}
	if decoded, err := base64.StdEncoding.DecodeString(cred); err == nil && strings.HasPrefix(strings.TrimSpace(string(decoded)), "{") {
		return []option.ClientOption{option.WithCredentialsJSON(decoded)}
	}

	return []option.ClientOption{option.WithCredentialsFile(cred)}
}
