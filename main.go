package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecobarter-backend/config"
	"ecobarter-backend/controller"
	"ecobarter-backend/dao"
	"ecobarter-backend/db"
	"ecobarter-backend/usecase"

	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/time/rate"
)

func main() {
	// 1. Config
	configPath := os.Getenv("ECOBARTER_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}
	provider, err := config.NewProvider(configPath)
	if err != nil {
		logx.Must(err)
	}
	cfg := provider.Current()
	logx.MustSetup(cfg.LogConf())
	defer logx.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := provider.Watch(ctx); err != nil {
		logx.Errorf("config watch disabled: %v", err)
	}

	// 2. DB Connection
	conn, err := db.Open(ctx, cfg.Database.Driver, cfg.DataSourceName())
	if err != nil {
		logx.Must(err)
	}
	defer conn.Close()
	logx.Infof("connected to %s database", conn.Driver)

	if err := db.Migrate(ctx, conn); err != nil {
		logx.Must(err)
	}

	// 3. Dependency Injection
	itemRepo := dao.NewItemRepository(conn)
	tradeRepo := dao.NewTradeRepository(conn)
	msgRepo := dao.NewMessageRepository(conn)

	if !cfg.IsProduction() {
		n, err := db.Seed(ctx, conn, itemRepo)
		if err != nil {
			logx.Errorf("seed demo items: %v", err)
		} else if n > 0 {
			logx.Infof("seeded %d demo items", n)
		}
	}

	aiUsecase := usecase.NewAIUsecase()
	itemUsecase := usecase.NewItemUsecase(itemRepo)
	negotiationUsecase := usecase.NewNegotiationUsecase(conn, itemRepo, tradeRepo, msgRepo, aiUsecase)

	var limiter *rate.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	}
	router := &controller.Router{
		AI:      controller.NewAIController(aiUsecase, itemUsecase, provider),
		Items:   controller.NewItemController(itemUsecase),
		Trades:  controller.NewTradeController(negotiationUsecase, provider),
		Limiter: limiter,
	}

	// 4. Start Server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logx.Infof("server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Errorf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logx.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Errorf("server forced to shutdown: %v", err)
	}
	logx.Info("server stopped")
}
