package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/kitchen/internal/config"
	"github.com/fjod/kitchen/internal/metrics"
	"github.com/fjod/kitchen/internal/notification"
	"github.com/fjod/kitchen/pkg/circuitbreaker"
	"github.com/fjod/kitchen/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New("kitchen-notifier", cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("notifier stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("notifier exited")
}

func run(cfg *config.Config, log *slog.Logger) error {
	if len(cfg.Kafka.Brokers) == 0 {
		return errors.New("notifier needs at least one kafka broker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New("notifier", reg)

	var notifier notification.Notifier = notification.NewLogNotifier(log)
	if cfg.Mail.Enabled {
		mailer, err := notification.NewMailer(notification.MailConfig{
			Enabled:  true,
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			User:     cfg.Mail.User,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			FromName: cfg.Mail.FromName,
		}, log)
		if err != nil {
			return fmt.Errorf("create mailer: %w", err)
		}
		notifier = notification.NewBreakerNotifier(mailer, circuitbreaker.DefaultConfig("smtp"), log)
	}

	consumer := notification.NewConsumer(
		notification.NewHandler(notifier, m, log),
		cfg.Kafka.Topic,
		cfg.Kafka.GroupID,
		log,
		cfg.Kafka.Brokers...,
	)

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", metrics.Handler(reg))

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("notifier consuming", "topic", cfg.Kafka.Topic, "group_id", cfg.Kafka.GroupID)
		consumer.Run(gctx)
		return nil
	})

	g.Go(func() error {
		log.Info("notifier metrics listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down notifier...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), consumer.Close())
	})

	return g.Wait()
}
