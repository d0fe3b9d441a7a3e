package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/adapters/event"
	httpAdapter "github.com/khoahotran/folio/adapters/http"
	"github.com/khoahotran/folio/adapters/persistence"
	"github.com/khoahotran/folio/internal/application/service"
	authUC "github.com/khoahotran/folio/internal/application/usecase/auth"
	"github.com/khoahotran/folio/internal/application/usecase/gallery"
	portfolioUC "github.com/khoahotran/folio/internal/application/usecase/portfolio"
	shareUC "github.com/khoahotran/folio/internal/application/usecase/share"
	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/pkg/auth"
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
	appLogger.Info("Starting Folio API server...", zap.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "folio-api")
	if err != nil {
		appLogger.Fatal("Failed to initialize tracer", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			appLogger.Error("Failed to shutdown tracer", err)
		}
	}()

	// Storage
	stores, closeStores, err := persistence.OpenStores(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open storage", err, zap.String("driver", cfg.Storage.Driver))
	}
	defer closeStores()

	// Kafka is optional: without brokers nothing is published and the worker
	// has nothing to do.
	var publisher service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg)
		if err != nil {
			appLogger.Fatal("Failed to init Kafka producer", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	} else {
		appLogger.Warn("No Kafka brokers configured, portfolio events are not published")
	}

	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Use Cases
	signUpUC := authUC.NewSignUpUseCase(stores.Users, jwtSvc, appLogger)
	signInUC := authUC.NewSignInUseCase(stores.Users, jwtSvc, appLogger)
	signOutUC := authUC.NewSignOutUseCase(stores.Sessions, jwtSvc, appLogger)
	currentUserUC := authUC.NewCurrentUserUseCase(stores.Users)

	createDraftUC := portfolioUC.NewCreateDraftUseCase(stores.Portfolios, appLogger)
	getPortfolioUC := portfolioUC.NewGetPortfolioUseCase(stores.Portfolios, appLogger)
	listPortfoliosUC := portfolioUC.NewListPortfoliosUseCase(stores.Portfolios, stores.Listing, appLogger)
	savePortfolioUC := portfolioUC.NewSavePortfolioUseCase(stores.Portfolios, stores.Listing, publisher, appLogger)
	editPortfolioUC := portfolioUC.NewEditPortfolioUseCase(stores.Portfolios, stores.Listing, publisher, appLogger)
	deletePortfolioUC := portfolioUC.NewDeletePortfolioUseCase(stores.Portfolios, stores.Listing, publisher, appLogger)
	votePortfolioUC := portfolioUC.NewVotePortfolioUseCase(stores.Portfolios, stores.Listing, publisher, appLogger)
	rssUC := portfolioUC.NewRSSUseCase(stores.Portfolios, cfg.App.BaseURL, appLogger)
	qrUC := shareUC.NewQRCodeUseCase(stores.Portfolios, cfg.App.BaseURL, cfg.Share.QRSize, appLogger)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := httpAdapter.RegisterValidators(); err != nil {
		appLogger.Fatal("Failed to register validators", err)
	}

	router := httpAdapter.NewRouter(httpAdapter.Handlers{
		Auth: httpAdapter.NewAuthHandler(signUpUC, signInUC, signOutUC, currentUserUC),
		Portfolio: httpAdapter.NewPortfolioHandler(
			createDraftUC,
			getPortfolioUC,
			listPortfoliosUC,
			savePortfolioUC,
			editPortfolioUC,
			deletePortfolioUC,
			votePortfolioUC,
		),
		Share: httpAdapter.NewShareHandler(qrUC),
		RSS:   httpAdapter.NewRSSHandler(rssUC, appLogger),
	}, httpAdapter.RouterConfig{
		JWT:        jwtSvc,
		Sessions:   stores.Sessions,
		Limiter:    stores.Limiter,
		VoteLimit:  cfg.Vote.RateLimit,
		VoteWindow: cfg.Vote.RateWindow,
		Logger:     appLogger,
	})

	// Background gallery refresh
	refresher := gallery.NewRefresher(stores.Portfolios, stores.Listing, cfg.Gallery.RefreshInterval, appLogger)
	go refresher.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown error", err)
	}
	appLogger.Info("Server stopped")
}
