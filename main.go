package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"mangiato/internal/cache"
	"mangiato/internal/config"
	"mangiato/internal/controllers"
	"mangiato/internal/database"
	"mangiato/internal/jwt"
	"mangiato/internal/logger"
	"mangiato/internal/middleware"
	"mangiato/internal/notify"
	"mangiato/internal/repository"
	"mangiato/internal/service"
)

func main() {
	cfg := config.Load()
	clientCfg := config.LoadClient()

	zl, err := logger.New(cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	if cfg.ConfirmSecret == "" {
		zl.Fatal("CONFIRM_SECRET is required")
	}

	db, err := database.NewConnection(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("database_connect_failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db, zl); err != nil {
		zl.Fatal("database_migrate_failed", zap.Error(err))
	}

	// Redis is optional, registration works without the cache
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			zl.Warn("redis_unavailable", zap.Error(err))
			cacheClient = nil
		} else {
			defer cacheClient.Close()
			zl.Info("redis_connected")
		}
	}

	userRepo := repository.NewUserRepository(db)
	tokens := jwt.NewJWTService(cfg.ConfirmSecret, cfg.ConfirmTTL(), cfg.AccessTTL())
	userService := service.NewUserService(userRepo, tokens, notify.NewLogNotifier(zl), cacheClient, cfg.BaseURL, zl)

	scriptURL := ""
	if cfg.StaticDir != "" {
		scriptURL = "/static/register.js"
	}

	userController := controllers.NewUserController(userService, zl)
	qrcodeController := controllers.NewQRCodeController(userService, tokens)
	pageController := controllers.NewPageController(cfg.BaseURL, clientCfg, scriptURL)

	usersLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, zl)
	defer usersLimiter.Stop()

	router := newRouter(userController, qrcodeController, pageController, usersLimiter)
	if cfg.StaticDir != "" {
		router.Static("/static", cfg.StaticDir)
	}

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		zl.Info("server_starting", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server_failed", zap.Error(err))
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	zl.Info("server_stopping")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		zl.Error("server_forced_shutdown", zap.Error(err))
	}
}

func newRouter(
	userController *controllers.UserController,
	qrcodeController *controllers.QRCodeController,
	pageController *controllers.PageController,
	usersLimiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/register", pageController.RegisterForm)

	users := router.Group("/v1/users")
	users.Use(usersLimiter.Middleware())
	{
		users.POST("/", userController.CreateUser)
		users.GET("/confirm/:token", userController.ConfirmEmail)
		users.GET("/confirm/:token/qrcode", qrcodeController.ConfirmationQRCode)
	}

	login := router.Group("/v1/login")
	login.Use(usersLimiter.Middleware())
	{
		login.POST("/", userController.Login)
	}

	return router
}
