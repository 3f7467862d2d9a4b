package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"fairgate/internal/audit"
	auditkafka "fairgate/internal/audit/kafka"
	"fairgate/internal/auth"
	authhandler "fairgate/internal/auth/handler"
	"fairgate/internal/auth/revocation"
	"fairgate/internal/auth/token"
	documenthandler "fairgate/internal/document/handler"
	documentservice "fairgate/internal/document/service"
	documentstore "fairgate/internal/document/store"
	exhibitorhandler "fairgate/internal/exhibitor/handler"
	exhibitorservice "fairgate/internal/exhibitor/service"
	exhibitorstore "fairgate/internal/exhibitor/store"
	httpapi "fairgate/internal/http"
	"fairgate/internal/platform/config"
	"fairgate/internal/platform/httpserver"
	"fairgate/internal/platform/logger"
	"fairgate/internal/platform/metrics"
	"fairgate/internal/platform/postgres"
	"fairgate/internal/platform/redis"
	"fairgate/internal/settings"
	settingshandler "fairgate/internal/settings/handler"
	settingsservice "fairgate/internal/settings/service"
	settingsstore "fairgate/internal/settings/store"
	"fairgate/pkg/platform/circuit"
	"fairgate/pkg/platform/dispatch"
)

const auditQueueSize = 1024

type revocationStore interface {
	auth.RevocationChecker
	authhandler.Revoker
}

// main wires dependencies and runs the HTTP server and the audit worker
// until SIGINT or SIGTERM.
func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("FAIRGATE_CONFIG"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Logging)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	phase, err := settings.ParsePhase(cfg.Server.Phase)
	if err != nil {
		return err
	}
	if phase != settings.PhaseServing {
		return errors.New("the server only runs in the serving phase; use cmd/prebuild for build runs")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	health := map[string]httpapi.HealthCheck{"postgres": db.PingContext}

	var revocations revocationStore = revocation.NewInMemory()
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		revocations = revocation.NewRedis(redisClient.Client)
		health["redis"] = redisClient.Health
	} else {
		log.Warn("redis not configured; session revocations are kept in memory")
	}

	var auditSink audit.Sink = audit.NewLogSink(log)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := auditkafka.New(ctx, cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, log)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		auditSink = audit.NewResilientSink(kafkaSink, auditSink, circuit.New("kafka-audit"), log)
		health["kafka"] = kafkaSink.Health
	}
	auditQueue := make(chan audit.Event, auditQueueSize)
	auditor := audit.NewPublisher(audit.QueueSink(auditQueue))
	auditWorker := audit.NewWorker(auditSink, auditQueue, log)

	tokens, err := token.New(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer)
	if err != nil {
		return err
	}
	resolver := auth.NewResolver(tokens, revocations, log)
	dispatcher := dispatch.New(dispatch.WithLogger(log), dispatch.WithMetrics(m))

	settingsStore, err := settings.NewStore(phase, settingsstore.NewPostgres(db),
		settings.WithMetrics(m), settings.WithLogger(log))
	if err != nil {
		return err
	}
	settingsSvc, err := settingsservice.New(settingsStore,
		settingsservice.WithLogger(log), settingsservice.WithAuditPublisher(auditor))
	if err != nil {
		return err
	}
	exhibitorSvc, err := exhibitorservice.New(exhibitorstore.NewPostgres(db), settingsStore,
		exhibitorservice.WithLogger(log), exhibitorservice.WithAuditPublisher(auditor))
	if err != nil {
		return err
	}
	documentSvc, err := documentservice.New(documentstore.NewPostgres(db), log)
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(httpapi.Options{
		Logger:   log,
		Gatherer: reg,
		OpsToken: cfg.Server.OpsToken,
		Health:   health,
	},
		authhandler.New(revocations, dispatcher, resolver, log),
		settingshandler.New(settingsSvc, dispatcher, resolver, log),
		exhibitorhandler.New(exhibitorSvc, dispatcher, resolver, log),
		documenthandler.New(documentSvc, dispatcher, resolver, log),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, httpserver.New(cfg.Server.Addr, router), log)
	})
	g.Go(func() error {
		return auditWorker.Run(gctx)
	})
	return g.Wait()
}
