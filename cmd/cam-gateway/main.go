//	@title			Cam Gateway API
//	@version		1.0
//	@description	Upload gateway for ESP32-CAM devices: stores JPEG snapshots in object storage, records metadata and pushes notifications.
//
//	@BasePath	/

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"camGateway/internal/config"
	"camGateway/internal/http-server/handlers/image/listImages"
	"camGateway/internal/http-server/handlers/image/uploadImage"
	"camGateway/internal/http-server/middleware/mwlogger"
	"camGateway/internal/kafka/producer"
	"camGateway/internal/lib/logger/handlers/slogpretty"
	"camGateway/internal/lib/logger/sl"
	"camGateway/internal/notifier/telegram"
	"camGateway/internal/storage/minio"
	"camGateway/internal/storage/postgres"

	_ "camGateway/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting cam gateway", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	objectStore, err := minio.New(&cfg.Storage)
	if err != nil {
		log.Error("failed to init object storage", sl.Err(err))
		os.Exit(1)
	}

	var metaStore *postgres.Storage
	if cfg.Database.Host != "" {
		metaStore, err = postgres.InitDB(&cfg.Database)
		if err != nil {
			log.Error("failed to init metadata store", sl.Err(err))
			os.Exit(1)
		}
	} else {
		log.Warn("metadata store disabled: no database host configured")
	}

	var tgNotifier *telegram.Notifier
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		tgNotifier, err = telegram.New(&cfg.Telegram, log)
		if err != nil {
			log.Error("failed to init telegram notifier, continuing without notifications", sl.Err(err))
			tgNotifier = nil
		}
	} else {
		log.Warn("telegram notifications disabled: token or chat id not configured")
	}

	var kafkaProducer *producer.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err = producer.NewProducer(&cfg.Kafka, log)
		if err != nil {
			log.Error("failed to create kafka producer", sl.Err(err))
			os.Exit(1)
		}
	} else {
		log.Warn("upload events disabled: no kafka brokers configured")
	}

	var saver uploadImage.RecordSaver
	var lister listImages.ImageLister
	if metaStore != nil {
		saver = metaStore
		lister = metaStore
	}

	var notifier uploadImage.Notifier
	if tgNotifier != nil {
		notifier = tgNotifier
	}

	var eventProducer producer.ProducerIface
	if kafkaProducer != nil {
		eventProducer = kafkaProducer
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", "x-api-key", "x-device-id"},
		MaxAge:         300,
	}))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("cam gateway is running"))
	})

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Post("/upload", uploadImage.New(log, cfg.APIKey, cfg.MaxUploadSize, objectStore, saver, notifier, eventProducer))
	router.Get("/images", listImages.New(log, lister))

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", sl.Err(err))
			os.Exit(1)
		}
	}()

	sign := <-stop

	log.Info("application stopping", slog.String("signal", sign.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.Timeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down server gracefully", sl.Err(err))
	}

	if metaStore != nil {
		if err = metaStore.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}

	if kafkaProducer != nil {
		if err = kafkaProducer.Close(); err != nil {
			log.Error("failed to close kafka producer", slog.String("error", err.Error()))
		}
	}

	log.Info("application stopped")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
