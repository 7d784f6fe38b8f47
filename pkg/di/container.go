package di

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"todo-api/application/serviceimpl"
	"todo-api/domain/ports"
	"todo-api/domain/repositories"
	"todo-api/domain/services"
	"todo-api/infrastructure/messaging"
	natspkg "todo-api/infrastructure/nats"
	"todo-api/infrastructure/postgres"
	redispkg "todo-api/infrastructure/redis"
	"todo-api/interfaces/api/handlers"
	"todo-api/interfaces/api/middleware"
	"todo-api/interfaces/api/routes"
	"todo-api/pkg/config"
	"todo-api/pkg/logger"
	"todo-api/pkg/utils"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redispkg.Client // optional, login rate limiting
	NATSClient  *natspkg.Client  // optional, task events
	Tokens      *utils.TokenManager

	// Ports
	EventPublisher ports.TaskEventPublisher
	LoginLimiter   ports.LoginLimiter

	// Repositories
	UserRepository repositories.UserRepository
	TaskRepository repositories.TaskRepository

	// Services
	AuthService services.AuthService
	TaskService services.TaskService

	// Metrics
	Registry *prometheus.Registry
	Metrics  *middleware.Metrics
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	c.initMetrics()

	logger.Info("Container initialized")
	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	return nil
}

func (c *Container) initLogger() error {
	logCfg := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Logger initialized",
		"level", logCfg.Level,
		"format", logCfg.Format,
		"output", logCfg.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	db, err := postgres.NewDatabase(c.Config.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	logger.Info("Database connected", "host", c.Config.Database.Host, "db", c.Config.Database.DBName)

	if err := postgres.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("Database migrated")

	tokens, err := utils.NewTokenManager(c.Config.JWT.Secret, c.Config.JWT.TTL)
	if err != nil {
		return fmt.Errorf("failed to create token manager: %w", err)
	}
	c.Tokens = tokens

	c.initRedis()
	c.initNATS()
	return nil
}

// Redis ไม่บังคับ ถ้าต่อไม่ได้ก็ปิด rate limiter
func (c *Container) initRedis() {
	if c.Config.Redis.URL == "" || c.Config.Auth.LoginRateLimit <= 0 {
		logger.Info("Login rate limiter disabled")
		return
	}

	client, err := redispkg.NewClient(c.Config.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, login rate limiter disabled", "error", err)
		return
	}
	c.RedisClient = client
	c.LoginLimiter = redispkg.NewLoginLimiter(client, c.Config.Auth.LoginRateLimit, c.Config.Auth.LoginRateWindow)
	logger.Info("Login rate limiter enabled",
		"max_attempts", c.Config.Auth.LoginRateLimit,
		"window", c.Config.Auth.LoginRateWindow.String(),
	)
}

// NATS ไม่บังคับ ถ้าไม่มีใช้ noop publisher
func (c *Container) initNATS() {
	if c.Config.NATS.URL == "" {
		c.EventPublisher = messaging.NewNoopPublisher()
		logger.Info("NATS not configured, task events are logged only")
		return
	}

	client, err := natspkg.NewClient(natspkg.ClientConfig{
		URL:           c.Config.NATS.URL,
		SubjectPrefix: c.Config.NATS.SubjectPrefix,
	})
	if err != nil {
		logger.Warn("NATS unavailable, task events are logged only", "error", err)
		c.EventPublisher = messaging.NewNoopPublisher()
		return
	}
	c.NATSClient = client
	c.EventPublisher = natspkg.NewTaskEventPublisher(client)
	logger.Info("NATS connected", "url", c.Config.NATS.URL)
}

func (c *Container) initRepositories() error {
	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.TaskRepository = postgres.NewTaskRepository(c.DB)
	logger.Info("Repositories initialized")
	return nil
}

func (c *Container) initServices() error {
	c.AuthService = serviceimpl.NewAuthService(c.UserRepository, c.Tokens, c.Config.Auth.BcryptCost)
	c.TaskService = serviceimpl.NewTaskService(c.TaskRepository, c.EventPublisher)
	logger.Info("Services initialized")
	return nil
}

func (c *Container) initMetrics() {
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = middleware.NewMetrics(c.Registry)
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	// Close NATS connection
	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			logger.Warn("Failed to close NATS connection", "error", err)
		} else {
			logger.Info("NATS connection closed")
		}
	}

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := postgres.Close(c.DB); err != nil {
			logger.Warn("Failed to close database connection", "error", err)
		} else {
			logger.Info("Database connection closed")
		}
	}

	logger.Info("Cleanup completed")
	return logger.Close()
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		AuthService: c.AuthService,
		TaskService: c.TaskService,
		DBPing: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			return postgres.Ping(ctx, c.DB)
		},
	}
}

func (c *Container) GetRouteDeps() routes.Deps {
	return routes.Deps{
		Tokens:       c.Tokens,
		LoginLimiter: c.LoginLimiter,
		Metrics:      c.Metrics,
		Gatherer:     c.Registry,
	}
}
