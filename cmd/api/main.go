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
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logger"
	"storefront/internal/server"
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

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
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

	cfg, err := config.LoadAPI()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Service: "order-api", Env: cfg.GoEnv, Level: cfg.LogLevel})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	//Repository（GORM実装）生成
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, orderItemRepo, auditRepo, &uuidGenerator{}, &realClock{}, log)

	//Handler生成
	orderH := handler.NewOrderHandler(orderUC)

	e := server.New(cfg, log)
	server.RegisterAPIRoutes(e, orderH)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx, e, server.Addr(cfg.Port), log)
	})

	if err := g.Wait(); err != nil {
		log.Error("order api stopped", zap.Error(err))
		return err
	}
	log.Info("order api stopped")
	return nil
}
