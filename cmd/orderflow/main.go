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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/orderflow/internal/api"
	"github.com/nikolayk812/orderflow/internal/bootstrap"
	"github.com/nikolayk812/orderflow/internal/config"
	"github.com/nikolayk812/orderflow/internal/domain"
	"github.com/nikolayk812/orderflow/internal/email"
	"github.com/nikolayk812/orderflow/internal/notification"
	"github.com/nikolayk812/orderflow/internal/queue"
	"github.com/nikolayk812/orderflow/internal/repository"
	"github.com/nikolayk812/orderflow/internal/service"
	"github.com/nikolayk812/orderflow/internal/template"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		slog.Error("orderflow stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	setup, err := bootstrap.NewPipeline(
		bootstrap.PingDatabase(pool),
		bootstrap.Migrate(func() error { return repository.RunMigrations(pool) }),
		bootstrap.SeedStatuses(repository.NewStatusCatalog(pool)),
	)
	if err != nil {
		return fmt.Errorf("bootstrap.NewPipeline: %w", err)
	}
	if err := setup.Run(ctx); err != nil {
		return fmt.Errorf("setup.Run: %w", err)
	}

	sender, err := email.NewSMTPSender(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		return fmt.Errorf("email.NewSMTPSender: %w", err)
	}

	producer, err := queue.NewProducer(queue.ProducerConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		Async:   true,
	})
	if err != nil {
		return fmt.Errorf("queue.NewProducer: %w", err)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			slog.Error("producer close failed", "error", err)
		}
	}()

	orderService, notificationService, err := wire(pool, cfg, sender, producer)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api.NewRouter(orderService, notificationService, pool, cfg.RequestTimeout),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("srv.Shutdown: %w", err)
		}
		return nil
	})

	if cfg.MailWorker {
		worker, err := queue.NewMailWorker(queue.WorkerConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
			GroupID: cfg.KafkaGroupID,
		}, sender)
		if err != nil {
			return fmt.Errorf("queue.NewMailWorker: %w", err)
		}

		g.Go(func() error {
			defer func() {
				if err := worker.Close(); err != nil {
					slog.Error("mail worker close failed", "error", err)
				}
			}()
			slog.Info("mail worker started", "topic", cfg.KafkaTopic, "group", cfg.KafkaGroupID)
			return worker.Run(gctx)
		})
	}

	return g.Wait()
}

func wire(pool *pgxpool.Pool, cfg config.Config, sender *email.SMTPSender, producer *queue.Producer) (*service.OrderService, *service.NotificationService, error) {
	orders := repository.NewOrder(pool)
	notifications := repository.NewNotification(pool)

	engine, err := template.NewEngine()
	if err != nil {
		return nil, nil, fmt.Errorf("template.NewEngine: %w", err)
	}

	syncDelivery, err := notification.NewSyncDelivery(sender)
	if err != nil {
		return nil, nil, fmt.Errorf("notification.NewSyncDelivery: %w", err)
	}
	asyncDelivery, err := notification.NewAsyncDelivery(producer)
	if err != nil {
		return nil, nil, fmt.Errorf("notification.NewAsyncDelivery: %w", err)
	}

	dispatcher, err := notification.NewDispatcher(orders, repository.NewCustomer(pool), notifications, engine, syncDelivery, asyncDelivery)
	if err != nil {
		return nil, nil, fmt.Errorf("notification.NewDispatcher: %w", err)
	}

	policy := repository.DefaultRetryPolicy()
	policy.MaxRetries = cfg.TxRetries

	orderService, err := service.NewOrderService(
		repository.NewUnitOfWork(pool, policy),
		orders,
		dispatcher,
		domain.NewInvoiceGenerator(nil, domain.DefaultInvoiceAttempts),
		cfg.Currency,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("service.NewOrderService: %w", err)
	}

	notificationService, err := service.NewNotificationService(notifications)
	if err != nil {
		return nil, nil, fmt.Errorf("service.NewNotificationService: %w", err)
	}

	return orderService, notificationService, nil
}
