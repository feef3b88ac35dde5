package dependencies

import (
	"context"
	"fmt"
	"log/slog"

	"NetWatch/internal/clients"
	"NetWatch/internal/config"
	"NetWatch/internal/notify"
	"NetWatch/internal/probe"
	"NetWatch/internal/services"
	"NetWatch/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Container wires the application dependencies together.
type Container struct {
	// Config
	Config *config.Config

	// Logger
	Logger *slog.Logger

	// Storage
	EndpointStore   storage.EndpointStore
	CategoryStore   storage.CategoryStore
	TransitionStore storage.TransitionStore

	// Notifications
	Notifier *notify.Notifier

	// Services
	HealthService *services.HealthService
	SyncService   *services.SyncService

	// Connections
	DB    *pgxpool.Pool
	Redis *redis.Client
}

// NewContainer создает и инициализирует контейнер зависимостей
func NewContainer(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Container, error) {
	container := &Container{
		Config: cfg,
		Logger: log,
	}

	if err := container.initDatabase(ctx); err != nil {
		return nil, err
	}

	if err := container.initRedis(ctx); err != nil {
		return nil, err
	}

	container.initStorage()
	container.initNotifier()
	container.initServices()

	slog.Info("Dependency container initialized successfully")
	return container, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	db, err := storage.NewPostgres(ctx, &c.Config.Database, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	c.DB = db
	return nil
}

func (c *Container) initRedis(ctx context.Context) error {
	client := redis.NewClient(c.Config.Redis.GetRedisOptions())

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c.Logger.Info("Connected to Redis")
	c.Redis = client
	return nil
}

func (c *Container) initStorage() {
	c.EndpointStore = storage.NewEndpointStore(c.DB)
	c.CategoryStore = storage.NewCategoryStore(c.DB)
	c.TransitionStore = storage.NewTransitionStore(c.DB)
}

func (c *Container) initNotifier() {
	logger := slog.Default()

	sinks := []notify.Sink{
		notify.NewRedisSink(c.Redis, c.Config.Redis.Channel),
	}

	if c.Config.Telegram.Enabled {
		sinks = append(sinks, notify.NewTelegramSink(c.Config.Telegram.Token, c.Config.Telegram.ChatIDs))
	}

	c.Notifier = notify.NewNotifier(
		notify.NewEventLog(c.Config.Monitor.LogFile),
		sinks,
		logger.With("component", "notifier"),
	)
}

func (c *Container) initServices() {
	logger := slog.Default()

	c.HealthService = services.NewHealthService(
		c.EndpointStore,
		c.TransitionStore,
		c.Notifier,
		probe.NewFactory(),
		services.HealthServiceConfig{
			CheckInterval:       c.Config.Monitor.CheckInterval,
			MaxConcurrentProbes: c.Config.Monitor.MaxConcurrentProbes,
		},
		logger.With("service", "health"),
	)

	c.SyncService = services.NewSyncService(
		clients.NewFeedClient(&c.Config.Feed, logger.With("client", "feed")),
		c.EndpointStore,
		c.CategoryStore,
		c.Notifier,
		services.SyncServiceConfig{
			SyncInterval: c.Config.Monitor.SyncInterval,
		},
		logger.With("service", "sync"),
	)
}

// Close закрывает все соединения
func (c *Container) Close() error {
	var errs []error

	if c.DB != nil {
		c.DB.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing dependencies: %v", errs)
	}

	return nil
}
