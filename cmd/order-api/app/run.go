package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/RyanB1303/order-service/configs"
	"github.com/RyanB1303/order-service/internal/adapter/cache"
	"github.com/RyanB1303/order-service/internal/adapter/catalog"
	"github.com/RyanB1303/order-service/internal/adapter/http"
	"github.com/RyanB1303/order-service/internal/adapter/http/middleware"
	"github.com/RyanB1303/order-service/internal/adapter/kafka"
	"github.com/RyanB1303/order-service/internal/adapter/queue"
	"github.com/RyanB1303/order-service/internal/adapter/repo"
	"github.com/RyanB1303/order-service/internal/logging"
	"github.com/RyanB1303/order-service/internal/usecase"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	log := logging.Init(cfg.App.Name, cfg.App.LogFile)

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		return nil, nil, err
	}
	cancel()

	log.Info("order-api: starting up")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// init rabbitmq
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}

	// infra
	orderRepo := repo.NewMySQLOrderRepo(db)
	redisCache := cache.NewRedisCache(rdb, cfg.Cache.TTL)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	books := catalog.NewBookClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		return nil, nil, err
	}

	// use cases
	submitUC := usecase.NewSubmitOrder(books, orderRepo, producer, idem)
	dispatchUC := usecase.NewDispatchOrder(orderRepo, redisCache)
	listUC := usecase.NewListOrders(orderRepo)

	// register rabbit consumer (acceptance events warm the status cache)
	if err := setupQueue(ch, redisCache); err != nil {
		return nil, nil, err
	}

	// register kafka dispatch listener
	kafkaCancel, err := setupKafkaListener(cfg, dispatchUC)
	if err != nil {
		return nil, nil, err
	}

	// handlers + routers + middleware
	h := http.NewOrderHandler(submitUC, listUC, orderRepo, redisCache)
	th := http.NewTokenHandler(cfg)
	auth := middleware.NewAuthz(cfg)
	router := http.NewRouter(h, th, auth)

	cleanup := func() {
		kafkaCancel()
		_ = ch.Close()
		_ = conn.Close()
		_ = db.Close()
		_ = rdb.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func setupQueue(ch *amqp091.Channel, redisCache *cache.RedisCache) error {
	h := queue.NewAcceptedOrderHandler(redisCache)

	router := queue.NewRouter(ch, queue.WithPrefetch(50))
	router.Register("order.accepted.q", queue.JSONHandler[usecase.OrderAcceptedMsg]{HandleFunc: h.HandleAccepted})

	return router.Start()
}

func setupKafkaListener(cfg configs.Config, dispatchUC *usecase.DispatchOrder) (context.CancelFunc, error) {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return nil, err
	}

	h := kafka.NewOrderDispatchedHandler(dispatchUC)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.Topic}, h.Handle)
	consumer.Logger = logging.New("kafka-consumer")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			logging.Base().Error("kafka consumer stopped", "error", err)
		}
		_ = grp.Close()
	}()
	return cancel, nil
}
