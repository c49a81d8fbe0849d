package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-be/internal/api"
	"storefront-be/internal/cart"
	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/events"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/notification"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/product"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	shutdownTimeout   = 10 * time.Second
	catalogCacheTTL   = 5 * time.Minute
	notifyQueueSize   = 256
	eventQueueSize    = 256
	redisPingDeadline = 2 * time.Second
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

type app struct {
	handler   http.Handler
	queue     *notification.Queue
	publisher events.Publisher
	limiter   *middleware.Limiter
	metrics   *metrics.Registry
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database := db.InitDB(cfg)
	defer database.Close()

	rdb := connectRedis(ctx, cfg.RedisAddr)
	if rdb != nil {
		defer rdb.Close()
	}

	a := buildApp(cfg, database, rdb, newPublisher(cfg.RabbitMQURL))
	defer a.publisher.Close()

	go a.limiter.Cleanup(ctx)

	srv := newServer(cfg.AppPort, a.handler)
	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("storefront server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.L().Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("http shutdown incomplete", zap.Error(err))
	}
	if err := a.queue.Close(shutdownCtx); err != nil {
		logger.L().Warn("notification queue not drained", zap.Error(err))
	}
	logCounters(a.metrics)
	return nil
}

func logCounters(reg *metrics.Registry) {
	snap := reg.Snapshot()
	fields := make([]zap.Field, 0, len(snap))
	for _, name := range reg.Names() {
		fields = append(fields, zap.Uint64(name, snap[name]))
	}
	logger.L().Info("final counters", fields...)
}

func buildApp(cfg *config.Config, database *sql.DB, rdb *redis.Client, broker events.Publisher) *app {
	reg := metrics.NewRegistry()
	publisher := events.NewAsyncPublisher(broker, eventQueueSize)

	var catalog product.Repository = product.NewHTTPRepository(cfg.CatalogBaseURL)
	if rdb != nil {
		catalog = product.NewCachedRepository(catalog, rdb, catalogCacheTTL)
	}

	sender := notification.NewSMTPSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
	queue := notification.NewQueue(notification.NewDispatcher(sender, reg), cfg.NotifyWorkers, notifyQueueSize, reg)

	orders := order.NewService(
		order.NewRepository(database),
		payment.NewSimulatedGateway(),
		queue,
		publisher,
		reg,
	)

	limiter := middleware.NewLimiter()
	handler := api.NewRouter(api.Deps{
		Products:      product.NewService(catalog),
		Carts:         cart.NewService(newCartStorage(rdb, cfg.CartTTL), cart.NewNotifier()),
		Orders:        orders,
		Metrics:       reg,
		Limiter:       limiter,
		CORSOrigin:    cfg.CORSOrigin,
		SessionTTL:    cfg.CartTTL,
		SecureCookies: cfg.AppEnv == "production",
	})

	return &app{handler: handler, queue: queue, publisher: publisher, limiter: limiter, metrics: reg}
}

func newServer(port string, handler http.Handler) *http.Server {
	// no WriteTimeout: /cart/events streams for as long as the client listens
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// connectRedis returns nil when Redis is not configured or not reachable.
func connectRedis(ctx context.Context, addr string) *redis.Client {
	if addr == "" {
		logger.L().Warn("REDIS_ADDR not set, carts are kept in memory")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, redisPingDeadline)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.L().Warn("redis unreachable, carts are kept in memory", zap.String("addr", addr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}

func newCartStorage(rdb *redis.Client, ttl time.Duration) cart.Storage {
	if rdb == nil {
		return cart.NewMemoryStorage()
	}
	return cart.NewRedisStorage(rdb, ttl)
}

func newPublisher(url string) events.Publisher {
	if url == "" {
		return events.NopPublisher{}
	}

	p, err := events.NewRabbitPublisher(url)
	if err != nil {
		logger.L().Warn("rabbitmq unavailable, order events disabled", zap.Error(err))
		return events.NopPublisher{}
	}
	return p
}
