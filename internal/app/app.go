package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/togethertime/server/internal/controller"
	"github.com/togethertime/server/internal/repository/connection/inmemory"
	"github.com/togethertime/server/internal/repository/dedup"
	dedupinmemory "github.com/togethertime/server/internal/repository/dedup/inmemory"
	dedupredis "github.com/togethertime/server/internal/repository/dedup/redis"
	"github.com/togethertime/server/internal/service/room"
	"github.com/togethertime/server/pkg/ctxlogger"
	"github.com/togethertime/server/pkg/invite"
	"github.com/togethertime/server/pkg/mediainfo"
	"github.com/togethertime/server/pkg/redisclient"
)

const (
	DedupStoreMemory = "memory"
	DedupStoreRedis  = "redis"

	shutdownTimeout = 30 * time.Second
)

type AppConfig struct {
	Secret         string        `json:"-"`
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	LogLevel       string        `json:"log_level"`
	MembersLimit   int           `json:"members_limit"`
	SyncInterval   time.Duration `json:"sync_interval"`
	DriftThreshold float64       `json:"drift_threshold"`
	DedupStore     string        `json:"dedup_store"`
	DedupWindow    time.Duration `json:"dedup_window"`
	DedupSize      int           `json:"dedup_size"`
	PublicURL      string        `json:"public_url"`
	RedisHost      string        `json:"redis_host"`
	RedisPort      int           `json:"redis_port"`
	RedisPassword  string        `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.MembersLimit < 0 {
		return fmt.Errorf("members limit must not be negative")
	}
	if cfg.SyncInterval < 0 {
		return fmt.Errorf("sync interval must not be negative")
	}
	if cfg.DriftThreshold <= 0 {
		return fmt.Errorf("drift threshold must be greater than 0")
	}
	if cfg.DedupWindow <= 0 {
		return fmt.Errorf("dedup window must be greater than 0")
	}
	if cfg.DedupSize < 1 {
		return fmt.Errorf("dedup size must be greater than 0")
	}

	switch cfg.DedupStore {
	case DedupStoreMemory:
	case DedupStoreRedis:
		if cfg.RedisHost == "" {
			return fmt.Errorf("redis host is required for the redis dedup store")
		}
	default:
		return fmt.Errorf("unknown dedup store %q", cfg.DedupStore)
	}

	if cfg.PublicURL != "" {
		u, err := url.Parse(cfg.PublicURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("public url must be an absolute http(s) url")
		}
	}

	return nil
}

func parseLogLevel(level string) (slog.Level, error) {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return logLevel, nil
}

func newLogger(level string) (*slog.Logger, error) {
	logLevel, err := parseLogLevel(level)
	if err != nil {
		return nil, err
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(h), nil
}

// randomSecret is used when no secret is configured; tokens then do not
// survive a restart.
func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

type iDedupRepo interface {
	MarkSeen(ctx context.Context, roomId, messageId string) (bool, error)
}

func Run(ctx context.Context, cfg *AppConfig) error {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	secret := cfg.Secret
	if secret == "" {
		logger.Warn("no secret configured, generating a random one")
		if secret, err = randomSecret(); err != nil {
			return fmt.Errorf("failed to generate secret: %w", err)
		}
	}

	dedupConfig := &dedup.Config{
		Window: cfg.DedupWindow,
		Size:   cfg.DedupSize,
	}

	var dedupRepo iDedupRepo
	switch cfg.DedupStore {
	case DedupStoreRedis:
		rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer rc.Close()

		dedupRepo = dedupredis.NewRepo(rc, dedupConfig)
	default:
		dedupRepo = dedupinmemory.NewRepo(dedupConfig)
	}

	connectionRepo := inmemory.NewRepo(logger)
	roomService := room.NewService(connectionRepo, dedupRepo, &room.Config{
		MembersLimit: cfg.MembersLimit,
		SyncInterval: cfg.SyncInterval,
		Secret:       secret,
	}, logger)
	defer roomService.Close()

	controller := controller.NewController(roomService, mediainfo.New(), invite.NewGenerator(), &controller.Config{
		PublicURL:      cfg.PublicURL,
		DriftThreshold: cfg.DriftThreshold,
	}, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           controller.GetMux(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.RegisterOnShutdown(controller.Shutdown)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.InfoContext(gCtx, "starting server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen: %w", err)
		}

		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gCtx), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}

		return nil
	})

	return g.Wait()
}
