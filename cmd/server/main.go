package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"rolodex/internal/audit"
	"rolodex/internal/platform/config"
	"rolodex/internal/platform/httpserver"
	"rolodex/internal/platform/logger"
	platformmetrics "rolodex/internal/platform/metrics"
	"rolodex/internal/platform/postgres"
	"rolodex/internal/profile"
	"rolodex/internal/profile/service"
	"rolodex/internal/profile/store"
	httptransport "rolodex/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		profiles store.Store
		health   httptransport.HealthChecker
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			// The service is useless without its store; exit immediately.
			log.Error("store unreachable at boot", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		profiles = store.NewPostgres(db)
		health = db
		log.Info("using postgres store")
	} else {
		profiles = store.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory store")
	}

	var sink audit.Sink = audit.NewInMemoryStore()
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka unreachable at boot", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("audit trail publishing to kafka", "topic", cfg.AuditTopic)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := platformmetrics.New(registry)

	svc := profile.NewService(profiles, log,
		service.WithMetrics(m),
		service.WithAudit(audit.NewPublisher(sink)),
	)
	router := httptransport.NewRouter(profile.NewHandler(svc, log), log, m, registry, health)
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting rolodex", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
