package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"accounthub/internal/avatar"
	"accounthub/internal/config"
	"accounthub/internal/db"
	"accounthub/internal/email"
	apihttp "accounthub/internal/http"
	"accounthub/internal/repository"
	"accounthub/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)

	avatarStore := avatar.Store(avatar.NewDisabledStore("avatar store not configured"))
	if cfg.S3Bucket != "" {
		store, err := avatar.NewS3Store(ctx, cfg.S3Endpoint, cfg.S3Region, cfg.S3Bucket, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3PublicURL)
		if err != nil {
			logger.Warn("s3 avatar store init failed", zap.Error(err))
		} else {
			avatarStore = store
		}
	}

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	tokenSvc := service.NewTokenService(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	userSvc := service.NewUserService(logger, userRepo, avatarStore, emailSender)

	cookieTTL := time.Duration(cfg.CookieTTLDays) * 24 * time.Hour
	userHandler := apihttp.NewUserHandler(logger, userSvc, tokenSvc, cookieTTL)
	authn := apihttp.AuthRequired(tokenSvc, userRepo)
	router := apihttp.NewRouter(logger, userHandler, authn)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
