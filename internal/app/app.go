package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/drivemark/internal/auth"
	"github.com/MrSnakeDoc/drivemark/internal/config"
	"github.com/MrSnakeDoc/drivemark/internal/docstore"
	"github.com/MrSnakeDoc/drivemark/internal/filestore"
	"github.com/MrSnakeDoc/drivemark/internal/filestore/gdrive"
	"github.com/MrSnakeDoc/drivemark/internal/filestore/memory"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
	"github.com/MrSnakeDoc/drivemark/internal/metadata"
	"github.com/MrSnakeDoc/drivemark/internal/redis"
	redisstore "github.com/MrSnakeDoc/drivemark/internal/store/redis"
	"github.com/MrSnakeDoc/drivemark/internal/validation"
	"github.com/MrSnakeDoc/drivemark/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		TimeNow:          time.Now,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		RequestTimeout:   cfg.RequestTimeout,
		CORSOrigins:      cfg.CORSOrigins,
		CORSMaxAge:       cfg.CORSMaxAge,
		RateBurst:        cfg.RateBurst,
		RateRefillPerMin: cfg.RateRefillPerMin,
		MetadataCacheTTL: cfg.MetadataCacheTTL,
		FrontendURL:      cfg.FrontendURL,
	}

	// Sessions (and the metadata cache) live in Redis unless configured
	// for a single in-memory process.
	var sessions auth.SessionStore
	var redisClient *goredis.Client
	switch cfg.SessionStore {
	case config.SessionsRedis:
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(context.Background(), redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient.Named("redis"))
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		redisClient = client
		store := redisstore.NewStore(client)
		sessions = store
		if cfg.MetadataCacheTTL > 0 {
			d.MetadataCache = store
		}
	default:
		loggerClient.Warn("using in-memory sessions, logins are lost on restart")
		sessions = auth.NewMemoryStore()
	}

	var files filestore.FileStore
	switch cfg.StorageBackend {
	case config.BackendMemory:
		loggerClient.Warn("using in-memory storage, bookmarks are lost on restart")
		files = memory.NewStore()
	default:
		files = gdrive.New(gdrive.Options{
			Endpoint:  cfg.DriveEndpoint,
			UserAgent: "drivemark/" + version.Version,
		}, loggerClient.Named("drive"))
	}

	d.Store = docstore.New(files, docstore.Options{
		ContainerName:   cfg.DriveFolder,
		BackupRetention: cfg.BackupRetention,
	}, loggerClient.Named("docstore"))
	d.Auth = auth.New(auth.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.OAuthRedirectURL,
		CookieSecure: cfg.CookieSecure,
		SessionTTL:   cfg.SessionTTL,
	}, sessions, loggerClient.Named("auth"))
	d.Validator = validation.New()
	d.Metadata = metadata.New(metadata.Options{
		Timeout:              cfg.MetadataTimeout,
		AllowPrivateNetworks: cfg.MetadataPrivate,
	}, loggerClient.Named("metadata"))

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Drivemark v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Drivemark %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)
	a.logger.Info("storage configured",
		logger.String("backend", a.cfg.StorageBackend),
		logger.String("folder", a.cfg.DriveFolder),
		logger.String("sessions", a.cfg.SessionStore))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Drivemark stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
