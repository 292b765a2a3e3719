package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lume/internal/config"
	"lume/internal/handler"
	"lume/internal/infra/db"
	"lume/internal/infra/events"
	"lume/internal/infra/logger"
	"lume/internal/infra/metrics"
	infraRepo "lume/internal/infra/repository"
	"lume/internal/infra/seed"
	"lume/internal/infra/session"
	"lume/internal/repository"
	"lume/internal/server"
	"lume/internal/usecase"
	"lume/internal/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type eventSink interface {
	usecase.OrderEventPublisher
	Close() error
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Environment: cfg.GoEnv,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	if err := seed.Ensure(ctx, gormDB, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	carts, closeCarts, err := newCartStore(ctx, cfg, gormDB, log)
	if err != nil {
		return err
	}
	defer closeCarts()

	sink, err := newEventSink(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = sink.Close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	//Repository
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	optionRepo := infraRepo.NewOptionGormRepository(gormDB)
	ratingRepo := infraRepo.NewRatingGormRepository(gormDB)
	favoriteRepo := infraRepo.NewFavoriteGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase
	gate := usecase.NewAdminGate(userRepo)
	pricingUC := usecase.NewPricingUsecase(productRepo, optionRepo)
	productUC := usecase.NewProductUsecase(productRepo, optionRepo, ratingRepo, favoriteRepo)
	cartUC := usecase.NewCartUsecase(pricingUC, optionRepo, carts)
	orderUC := usecase.NewOrderUsecase(txm, carts, sink, m)
	favoriteUC := usecase.NewFavoriteUsecase(txm, favoriteRepo, m)
	ratingUC := usecase.NewRatingUsecase(productRepo, ratingRepo, m)
	authUC := usecase.NewAuthUsecase(cfg, userRepo, validator.NewAuthValidator(userRepo))
	adminOrderUC := usecase.NewAdminOrderUsecase(gate, txm, sink)
	adminProductUC := usecase.NewAdminProductUsecase(gate, txm, productRepo)
	adminAuditUC := usecase.NewAdminAuditUsecase(gate, auditRepo)

	e := server.New(server.Deps{
		Config:   cfg,
		Logger:   log,
		Registry: reg,
		Metrics:  m,
		Users:    userRepo,
		Handlers: server.Handlers{
			Auth:         handler.NewAuthHandler(authUC),
			Product:      handler.NewProductHandler(cfg, productUC, pricingUC),
			Cart:         handler.NewCartHandler(cartUC),
			Order:        handler.NewOrderHandler(orderUC),
			Engagement:   handler.NewEngagementHandler(favoriteUC, ratingUC),
			AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
			AdminProduct: handler.NewAdminProductHandler(adminProductUC),
			AdminAudit:   handler.NewAdminAuditHandler(adminAuditUC),
		},
	})

	log.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("db", cfg.DBType),
		zap.String("session_store", cfg.SessionStore),
	)
	if err := server.Start(ctx, e, cfg.Port); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func newCartStore(ctx context.Context, cfg config.Config, gormDB *gorm.DB, log *zap.Logger) (repository.CartStore, func(), error) {
	if cfg.SessionStore == config.SessionStoreRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return session.NewRedisStore(client, cfg.SessionTTL), func() { _ = client.Close() }, nil
	}

	store := session.NewGormStore(gormDB, cfg.SessionTTL)
	// expired rows are dropped once per boot
	if n, err := store.PurgeExpired(ctx); err != nil {
		log.Warn("purge expired sessions failed", zap.Error(err))
	} else if n > 0 {
		log.Info("purged expired sessions", zap.Int64("count", n))
	}
	return store, func() {}, nil
}

func newEventSink(cfg config.Config, log *zap.Logger) (eventSink, error) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("kafka disabled, order events are dropped")
		return events.NopPublisher{}, nil
	}
	p, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		return nil, fmt.Errorf("kafka: %w", err)
	}
	return p, nil
}
