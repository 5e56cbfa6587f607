package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"proptoken/internal/config"
	"proptoken/internal/database"
	"proptoken/internal/domain"
	"proptoken/internal/middleware"
	"proptoken/internal/modules/admin"
	"proptoken/internal/modules/auth"
	"proptoken/internal/modules/listing"
	"proptoken/internal/modules/notification"
	"proptoken/internal/modules/token"
	"proptoken/internal/modules/upload"
	"proptoken/internal/modules/verification"
	"proptoken/internal/modules/wallet"
	jwtsvc "proptoken/internal/pkg/jwt"
	"proptoken/internal/pkg/logger"
	"proptoken/internal/pkg/metrics"
	"proptoken/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logLevel := "debug"
	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" {
		logLevel = "info"
		gin.SetMode(gin.ReleaseMode)
	}
	if err := logger.Init(logLevel, cfg.AppEnv); err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.L().Fatal("database connection failed", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.VerificationRequest{},
		&domain.Property{},
		&domain.TokenIssuance{},
		&domain.TokenPurchase{},
		&domain.RefreshToken{},
		&wallet.Wallet{},
		&wallet.Transaction{},
		&notification.Notification{},
		&upload.Upload{},
	); err != nil {
		logger.L().Fatal("migration failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)

	jwtService := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	hub := notification.NewHub()
	notifService := notification.NewService(notification.NewRepository(db), hub)

	authService := auth.NewService(userRepo, refreshRepo, jwtService, cfg.RefreshTokenPepper, cfg.RefreshTTL)
	authHandler := auth.NewHandler(authService)

	verificationService := verification.NewService(verificationRepo, userRepo, notifService, cfg.AutoReviewDelay)
	verificationHandler := verification.NewHandler(verificationService)

	listingService := listing.NewService(propertyRepo, userRepo, tokenRepo, notifService)
	listingHandler := listing.NewHandler(listingService)

	walletService := wallet.NewService(db, cfg.WalletStartingBalance)
	walletHandler := wallet.NewHandler(walletService)

	tokenService := token.NewService(db, tokenRepo, propertyRepo, walletService, notifService)
	tokenHandler := token.NewHandler(tokenService)

	uploadService := upload.NewService(upload.NewRepository(db), cfg.UploadDir, cfg.StaticURLBase)
	uploadHandler := upload.NewHandler(uploadService)

	notifHandler := notification.NewHandler(notifService, hub, jwtService)

	adminService := admin.NewService(db, verificationRepo, propertyRepo, userRepo)
	adminHandler := admin.NewHandler(adminService, verificationService, listingService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(metrics.Middleware())

	r.GET("/metrics", metrics.Handler())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static(cfg.StaticURLBase, cfg.UploadDir)
	r.GET("/ws/notifications", notifHandler.HandleWebSocket)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(jwtService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			verificationHandler.RegisterRoutes(protected)
			listingHandler.RegisterRoutes(protected)
			tokenHandler.RegisterRoutes(protected)
			walletHandler.RegisterRoutes(protected)
			uploadHandler.RegisterRoutes(protected)
			notifHandler.RegisterRoutes(protected)
		}

		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.JWTAuth(jwtService), middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adminGroup)
		}
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	go func() {
		logger.L().Info("server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("shutting down")
	verificationService.Close()
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Error("shutdown failed", zap.Error(err))
	}
}
