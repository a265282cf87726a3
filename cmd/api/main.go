package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"meetapp/config"
	_ "meetapp/docs"
	"meetapp/internal/adapters/auth"
	"meetapp/internal/adapters/email"
	"meetapp/internal/database"
	httpdelivery "meetapp/internal/delivery/http"
	"meetapp/internal/delivery/http/controllers"
	"meetapp/internal/delivery/http/middleware"
	"meetapp/internal/domain"
	"meetapp/internal/queue"
	"meetapp/internal/repository/postgres"
	"meetapp/internal/services"

	"golang.org/x/crypto/bcrypt"
)

const serviceTimeout = 5 * time.Second

// @title MeetApp API
// @version 1.0
// @description Meetup scheduling and subscription API.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := config.NewLogger(cfg.Environment)

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DBUrl); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	bannerRepo := postgres.NewBannerRepository(db)
	meetupRepo := postgres.NewMeetupRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKey,
			SecretAccessKey:    cfg.SESSecretKey,
			InsecureSkipVerify: cfg.SESSkipVerify,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to set up mailer", "error", err)
		os.Exit(1)
	}

	renderer := email.NewTemplateRenderer()
	clock := domain.SystemClock{}

	emailService := services.NewEmailService(mailer, renderer, logger)

	dispatcher := queue.NewDispatcher(cfg.QueueBuffer, cfg.QueueWorkers, logger)
	dispatcher.Register(domain.TaskSubscriptionNotification, queue.NewSubscriptionNotificationHandler(emailService))

	tokenExpiry := time.Duration(cfg.TokenExpiryHours) * time.Hour
	authService := services.NewAuthService(userRepo, hasher, issuer, tokenExpiry, serviceTimeout)
	meetupService := services.NewMeetupService(meetupRepo, bannerRepo, clock, serviceTimeout)
	subscriptionService := services.NewSubscriptionService(meetupRepo, subscriptionRepo, dispatcher, clock, logger, serviceTimeout)

	authController := controllers.NewAuthController(logger, authService)
	fileController := controllers.NewFileController(logger, bannerRepo, cfg.UploadDir)
	meetupController := controllers.NewMeetupController(logger, meetupService)
	subscriptionController := controllers.NewSubscriptionController(logger, subscriptionService)

	mux := httpdelivery.NewRouter(
		logger,
		verifier,
		authController,
		fileController,
		meetupController,
		subscriptionController,
		cfg.UploadDir,
	)

	var handler http.Handler = middleware.LoggingMiddleware(logger, mux)
	if cfg.AllowedOrigins != "" {
		handler = middleware.CORS(strings.Split(cfg.AllowedOrigins, ","), handler)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go dispatcher.Start(ctx)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
