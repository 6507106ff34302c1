package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aq2208/gshop-api/configs"
	"github.com/aq2208/gshop-api/internal/adapter/cache"
	"github.com/aq2208/gshop-api/internal/adapter/catalog"
	"github.com/aq2208/gshop-api/internal/adapter/kafka"
	"github.com/aq2208/gshop-api/internal/adapter/observ"
	"github.com/aq2208/gshop-api/internal/adapter/queue"
	"github.com/aq2208/gshop-api/internal/adapter/repo"
	"github.com/aq2208/gshop-api/internal/bootstrap"
	"github.com/aq2208/gshop-api/internal/usecase"
)

// InitWithConfig wires the configured storage driver. Background consumers
// stop when ctx is cancelled; cleanup releases connections.
func InitWithConfig(ctx context.Context, cfg configs.Config) (*bootstrap.App, func(), error) {
	logger, err := observ.NewLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("zap: %w", err)
	}

	if cfg.Storage.Driver == configs.DriverMemory {
		logger.Info("shop-api: in-memory adapters")
		a := bootstrap.Build(cfg, bootstrap.MemoryDeps(cfg, logger))
		return a, func() { _ = logger.Sync() }, nil
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		_ = logger.Sync()
	}
	fail := func(err error) (*bootstrap.App, func(), error) {
		cleanup()
		return nil, nil, err
	}

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, func() { _ = db.Close() })
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		return fail(fmt.Errorf("mysql ping: %w", err))
	}
	logger.Info("shop-api: mysql ready")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	closers = append(closers, func() { _ = rdb.Close() })
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fail(fmt.Errorf("redis ping: %w", err))
	}

	// init rabbitmq: one channel publishes, one consumes
	conn, err := amqp.Dial(cfg.Rabbit.URL)
	if err != nil {
		return fail(fmt.Errorf("rabbitmq dial: %w", err))
	}
	closers = append(closers, func() { _ = conn.Close() })
	pubCh, err := conn.Channel()
	if err != nil {
		return fail(err)
	}
	producer, err := queue.NewRabbitProducer(pubCh)
	if err != nil {
		return fail(err)
	}

	// infra
	orderRepo := repo.NewMySQLOrderRepo(db)
	redisCache := cache.NewRedisCache(rdb, cfg.Cache.TTL)

	if err := setupQueue(ctx, conn, cfg, orderRepo, redisCache, logger); err != nil {
		return fail(err)
	}
	closeKafka, err := setupKafkaListener(ctx, cfg, orderRepo, redisCache, logger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeKafka)

	static := catalog.NewStatic(cfg.Catalog.LoadDelay)
	static.Start()

	a := bootstrap.Build(cfg, bootstrap.Deps{
		Carts:     cache.NewRedisCartStore(rdb, cfg.Session.TTL),
		Catalog:   static,
		Orders:    orderRepo,
		Outbox:    repo.NewMySQLOutboxRepo(db),
		Idem:      cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL),
		Cache:     redisCache,
		Publisher: producer,
	})
	logger.Info("shop-api: infra adapters wired")
	return a, cleanup, nil
}

func setupQueue(ctx context.Context, conn *amqp.Connection, cfg configs.Config,
	orders usecase.OrderRepo, oc usecase.OrderCache, logger *zap.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	h := queue.NewOrderPlacedHandler(orders, oc, logger.Named("order.placed"))

	opts := []queue.RouterOption{queue.WithLogger(logger.Named("rmq"))}
	if cfg.Rabbit.Prefetch > 0 {
		opts = append(opts, queue.WithPrefetch(cfg.Rabbit.Prefetch))
	}
	router := queue.NewRouter(ch, opts...)
	router.Register(queue.QueueOrderPlaced, queue.JSONHandler[usecase.OrderPlacedMsg]{HandleFunc: h.HandlePlaced})
	return router.Start(ctx)
}

func setupKafkaListener(ctx context.Context, cfg configs.Config, orders usecase.OrderRepo,
	oc usecase.OrderCache, logger *zap.Logger) (func(), error) {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return nil, fmt.Errorf("kafka group: %w", err)
	}

	log := logger.Named("kafka")
	h := kafka.NewOrderStatusChangedHandler(orders, oc, log)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.Topic}, h.Handle, log)

	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error("kafka consumer stopped", zap.Error(err))
		}
	}()
	return func() { _ = grp.Close() }, nil
}
