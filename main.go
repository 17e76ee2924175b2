package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"productos/internal/app"
	"productos/internal/config"
	"productos/internal/services"
	"productos/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(2)
	}

	log := app.NewLogger(cfg)
	slog.SetDefault(log)

	ctx := context.Background()

	// --- Store ---
	store, err := app.OpenStore(ctx, cfg.Store, log)
	if err != nil {
		log.Error("failed to open store", slog.String("driver", cfg.Store.Driver), slog.Any("error", err))
		os.Exit(1)
	}

	// --- Product events ---
	var publisher services.EventPublisher = services.NoopPublisher{}
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQ.URL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue})
		if err != nil {
			log.Error("failed to initialize RabbitMQ client", slog.Any("error", err))
			os.Exit(1)
		}
		publisher = mqClient
	} else {
		log.Info("RABBITMQ_URL not set, product events disabled")
	}

	// --- HTTP ---
	server := app.New(app.Deps{
		Config:    cfg,
		Products:  store.Products,
		Publisher: publisher,
		Logger:    log,
		AccessLog: true,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("starting server", slog.String("addr", cfg.AppPort), slog.String("store", cfg.Store.Driver))
		if err := server.Listen(cfg.AppPort); err != nil {
			log.Error("server failed", slog.Any("error", err))
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	log.Info("shutting down server")

	if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error("error during Fiber shutdown", slog.Any("error", err))
	}
	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			log.Error("error closing RabbitMQ client", slog.Any("error", err))
		}
	}

	closeCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := store.Close(closeCtx); err != nil {
		log.Error("error closing store", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
