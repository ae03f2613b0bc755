package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/orderapi"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/server"
	"storefront/internal/session"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// .env は無くてもよい
	_ = godotenv.Load()

	cfg, err := config.LoadStorefront()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Service: "storefront", Env: cfg.GoEnv, Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	//セッションごとのカート
	registry := session.NewRegistry(cfg.SessionTTL, time.Now)

	//注文サービスのクライアント
	gateway := orderapi.NewClient(cfg.OrderAPIURL, cfg.OrderAPITimeout, log)

	//Usecase生成
	purchaseUC := usecase.NewPurchaseUsecase(gateway, &uuidGenerator{}, log)
	orderListUC := usecase.NewOrderListUsecase(gateway, log)

	//Handler生成
	cartH := handler.NewCartHandler()
	purchaseH := handler.NewPurchaseHandler(purchaseUC, orderListUC)

	sessionMW := middleware.CartSession(registry, middleware.CartSessionConfig{
		Secure: cfg.IsProd(),
		MaxAge: cfg.SessionTTL,
	})

	e := server.New(cfg, log)
	server.RegisterStorefrontRoutes(e, sessionMW, cartH, purchaseH)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx, e, server.Addr(cfg.StorefrontPort), log)
	})
	g.Go(func() error {
		return registry.RunSweeper(ctx, cfg.SweepInterval, log)
	})

	log.Info("storefront ready", zap.String("order_api", cfg.OrderAPIURL))
	if err := g.Wait(); err != nil {
		log.Error("storefront stopped", zap.Error(err))
		return err
	}
	log.Info("storefront stopped")
	return nil
}
