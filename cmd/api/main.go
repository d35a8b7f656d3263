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

	"github.com/fjod/kitchen/internal/cart"
	"github.com/fjod/kitchen/internal/catalog"
	"github.com/fjod/kitchen/internal/config"
	"github.com/fjod/kitchen/internal/events"
	h "github.com/fjod/kitchen/internal/http"
	"github.com/fjod/kitchen/internal/metrics"
	"github.com/fjod/kitchen/internal/notification"
	"github.com/fjod/kitchen/internal/repository"
	"github.com/fjod/kitchen/internal/service"
	"github.com/fjod/kitchen/internal/session"
	"github.com/fjod/kitchen/pkg/circuitbreaker"
	"github.com/fjod/kitchen/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/sync/errgroup"
)

const dispatchBuffer = 256

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New("kitchen-api", cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("api stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("api exited")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otel.SetTextMapPropagator(propagation.TraceContext{})

	// Orders database
	creds := &repository.Credentials{
		Host:              cfg.DB.Host,
		Port:              cfg.DB.Port,
		User:              cfg.DB.User,
		Password:          cfg.DB.Password,
		DBName:            cfg.DB.Name,
		MigrationsDirPath: cfg.DB.MigrationsPath,
	}
	orders, err := repository.NewRepository(creds)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer orders.Close()

	if err := orders.RunMigrations(creds); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("database migrations completed")

	// Menu
	menu, err := catalog.NewRepository(cfg.Menu.DBPath)
	if err != nil {
		return fmt.Errorf("open menu database: %w", err)
	}
	defer menu.Close()

	if err := menu.RunMigrations(cfg.Menu.MigrationsPath); err != nil {
		return fmt.Errorf("run menu migrations: %w", err)
	}

	// Sessions
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	defer redisClient.Close()
	sessions := session.NewManager(redisClient, cfg.Redis.SessionTTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New("api", reg)

	g, gctx := errgroup.WithContext(ctx)

	publisher, closePublisher, err := newPublisher(gctx, g, cfg, m, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	svc := service.NewOrderService(orders, publisher,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithNotifyTimeout(cfg.Notify.Timeout),
	)

	router := h.NewRouter(h.RouterConfig{
		Sessions:       sessions,
		Carts:          cart.NewStore(log),
		Menu:           menu,
		Orders:         svc,
		Customers:      orders,
		Metrics:        m,
		Gatherer:       reg,
		Log:            log,
		RequestTimeout: cfg.RequestTimeout,
		SessionTTL:     cfg.Redis.SessionTTL,
		DevLogin:       cfg.DevLogin,
		Ready: func(ctx context.Context) error {
			return errors.Join(orders.Ping(ctx), sessions.Ping(ctx))
		},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "kitchen-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g.Go(func() error {
		log.Info("api starting", "port", cfg.HTTPPort, "notify_mode", cfg.Notify.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// newPublisher picks where order events go. Inline delivery runs the
// notification handler in this process on a background queue.
func newPublisher(ctx context.Context, g *errgroup.Group, cfg *config.Config, m *metrics.Metrics, log *slog.Logger) (events.Publisher, func(), error) {
	switch cfg.Notify.Mode {
	case config.NotifyKafka:
		p := events.NewKafkaPublisher(cfg.Kafka.Topic, cfg.Kafka.Brokers...)
		return p, func() {
			if err := p.Close(); err != nil {
				log.Warn("failed to close kafka writer", "error", err)
			}
		}, nil

	case config.NotifyInline:
		mailer, err := notification.NewMailer(mailConfig(cfg.Mail), log)
		if err != nil {
			return nil, nil, err
		}
		notifier := notification.NewBreakerNotifier(mailer, circuitbreaker.DefaultConfig("smtp"), log)
		d := events.NewDispatcher(notification.NewHandler(notifier, m, log), dispatchBuffer, log)
		g.Go(func() error {
			d.Run(ctx)
			return nil
		})
		return d, func() {}, nil

	default:
		return events.NopPublisher{}, func() {}, nil
	}
}

func mailConfig(c config.Mail) notification.MailConfig {
	return notification.MailConfig{
		Enabled:  c.Enabled,
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		From:     c.From,
		FromName: c.FromName,
	}
}
