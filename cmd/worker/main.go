package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/adapters/event"
	"github.com/khoahotran/folio/adapters/media_storage"
	"github.com/khoahotran/folio/adapters/persistence"
	portfolioUC "github.com/khoahotran/folio/internal/application/usecase/portfolio"
	shareUC "github.com/khoahotran/folio/internal/application/usecase/share"
	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/pkg/logger"
	"github.com/khoahotran/folio/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting Folio worker...")

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("Worker needs kafka.brokers", nil)
	}
	if cfg.Storage.Driver == config.StorageDriverMemory {
		appLogger.Warn("Worker is using in-memory storage and will not see the API server's portfolios")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "folio-worker")
	if err != nil {
		appLogger.Fatal("Failed to initialize tracer", err)
	}
	defer tp.Shutdown(context.Background())

	stores, closeStores, err := persistence.OpenStores(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open storage", err)
	}
	defer closeStores()

	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	qrUC := shareUC.NewQRCodeUseCase(stores.Portfolios, cfg.App.BaseURL, cfg.Share.QRSize, appLogger)
	processEventUC := portfolioUC.NewProcessPortfolioEventUseCase(stores.Portfolios, qrUC, uploader, stores.Listing, appLogger)

	consumer := event.NewPortfolioEventReader(cfg)
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicPortfolioEvents), zap.String("group_id", cfg.Kafka.GroupID))

	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		msgLog := appLogger.With(zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset))

		payload, err := event.DecodePortfolioEvent(msg)
		if err != nil {
			msgLog.Error("Bad portfolio event, skipping", err)
			commitMessage(consumer, msg, msgLog)
			continue
		}

		if err := processEventUC.Execute(ctx, payload); err != nil {
			// left uncommitted so the group redelivers it
			msgLog.Error("Failed to process portfolio event", err, zap.String("portfolio_id", payload.PortfolioID))
			continue
		}

		commitMessage(consumer, msg, msgLog)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
