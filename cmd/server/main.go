package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/acme_store/internal/config"
	"github.com/Skotchmaster/acme_store/internal/db"
	"github.com/Skotchmaster/acme_store/internal/es"
	"github.com/Skotchmaster/acme_store/internal/httpserver"
	"github.com/Skotchmaster/acme_store/internal/logging"
	"github.com/Skotchmaster/acme_store/internal/middleware/auth"
	"github.com/Skotchmaster/acme_store/internal/mykafka"
	"github.com/Skotchmaster/acme_store/internal/repo"
	"github.com/Skotchmaster/acme_store/internal/seed"
	"github.com/Skotchmaster/acme_store/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(logging.IntoContext(context.Background(), logger), 30*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		fatal(logger, "db_init_error", err)
	}
	if err := db.Migrate(initCtx, gdb); err != nil {
		cancel()
		fatal(logger, "db_migrate_error", err)
	}

	var producer mykafka.Publisher = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			cancel()
			fatal(logger, "kafka_init_error", err)
		}
		producer = p
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	Repo := &repo.GormRepo{DB: gdb}

	catalogService := &service.CatalogService{Repo: Repo, Producer: producer}
	if cfg.ESURL != "" {
		client, err := es.NewClient(cfg)
		if err != nil {
			cancel()
			fatal(logger, "es_init_error", err)
		}
		index := &es.ProductIndex{Client: client, Index: cfg.ESIndex}
		if err := index.EnsureIndex(initCtx); err != nil {
			cancel()
			fatal(logger, "es_index_error", err)
		}
		catalogService.Index = index
		logger.Info("search_enabled", "index", cfg.ESIndex)
	}

	identityService := &service.IdentityService{
		Repo:     Repo,
		Secret:   cfg.JWTSecret,
		TokenTTL: cfg.TokenTTL,
	}
	ledger := &service.CartLedger{Repo: Repo}

	if cfg.Seed {
		if err := seed.Run(initCtx, identityService, catalogService, ledger); err != nil {
			cancel()
			fatal(logger, "seed_error", err)
		}
	}
	cancel()

	e := httpserver.New(logger, cfg.RequestTimeout)
	httpserver.Register(e, &httpserver.Deps{
		DB:             gdb,
		Gate:           auth.NewGate(identityService),
		AuthHandler:    &httpserver.AuthHTTP{Svc: identityService, Producer: producer},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogService},
		CartHandler:    &httpserver.CartHTTP{Svc: ledger, Producer: producer},
	})

	go func() {
		logger.Info("server_start", "addr", cfg.Addr())
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "server_error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("shutdown complete")
}

func fatal(l *slog.Logger, event string, err error) {
	l.Error(event, "error", err)
	os.Exit(1)
}
