package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/togethertime/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	secret = configVar[string]{
		envKey:       "SERVER_SECRET",
		flagKey:      "secret",
		defaultValue: "",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 5000,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	membersLimit = configVar[int]{
		envKey:       "SERVER_MEMBERS_LIMIT",
		flagKey:      "members-limit",
		defaultValue: 0,
	}
	syncInterval = configVar[time.Duration]{
		envKey:       "SERVER_SYNC_INTERVAL",
		flagKey:      "sync-interval",
		defaultValue: 10 * time.Second,
	}
	driftThreshold = configVar[float64]{
		envKey:       "SERVER_DRIFT_THRESHOLD",
		flagKey:      "drift-threshold",
		defaultValue: 2,
	}
	dedupStore = configVar[string]{
		envKey:       "SERVER_DEDUP_STORE",
		flagKey:      "dedup-store",
		defaultValue: app.DedupStoreMemory,
	}
	dedupWindow = configVar[time.Duration]{
		envKey:       "SERVER_DEDUP_WINDOW",
		flagKey:      "dedup-window",
		defaultValue: time.Hour,
	}
	dedupSize = configVar[int]{
		envKey:       "SERVER_DEDUP_SIZE",
		flagKey:      "dedup-size",
		defaultValue: 100_000,
	}
	publicURL = configVar[string]{
		envKey:       "SERVER_PUBLIC_URL",
		flagKey:      "public-url",
		defaultValue: "",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func bind[T any](v configVar[T]) {
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func loadAppConfig() *app.AppConfig {
	pflag.String(secret.flagKey, secret.defaultValue, "Secret used to sign session tokens")
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(membersLimit.flagKey, membersLimit.defaultValue, "Maximum number of members in a room, 0 for no limit")
	pflag.Duration(syncInterval.flagKey, syncInterval.defaultValue, "Interval of host-sync broadcasts, 0 to disable")
	pflag.Float64(driftThreshold.flagKey, driftThreshold.defaultValue, "Drift in seconds clients tolerate before seeking")
	pflag.String(dedupStore.flagKey, dedupStore.defaultValue, "Chat dedup store: memory or redis")
	pflag.Duration(dedupWindow.flagKey, dedupWindow.defaultValue, "How long chat message ids are remembered")
	pflag.Int(dedupSize.flagKey, dedupSize.defaultValue, "Maximum number of remembered chat message ids (memory store)")
	pflag.String(publicURL.flagKey, publicURL.defaultValue, "Public origin used in invite links")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	bind(secret)
	bind(port)
	bind(host)
	bind(logLevel)
	bind(membersLimit)
	bind(syncInterval)
	bind(driftThreshold)
	bind(dedupStore)
	bind(dedupWindow)
	bind(dedupSize)
	bind(publicURL)
	bind(redisPort)
	bind(redisHost)
	bind(redisPassword)

	config := &app.AppConfig{
		Secret:         viper.GetString(secret.flagKey),
		Host:           viper.GetString(host.flagKey),
		Port:           viper.GetInt(port.flagKey),
		LogLevel:       viper.GetString(logLevel.flagKey),
		MembersLimit:   viper.GetInt(membersLimit.flagKey),
		SyncInterval:   viper.GetDuration(syncInterval.flagKey),
		DriftThreshold: viper.GetFloat64(driftThreshold.flagKey),
		DedupStore:     viper.GetString(dedupStore.flagKey),
		DedupWindow:    viper.GetDuration(dedupWindow.flagKey),
		DedupSize:      viper.GetInt(dedupSize.flagKey),
		PublicURL:      viper.GetString(publicURL.flagKey),
		RedisPort:      viper.GetInt(redisPort.flagKey),
		RedisHost:      viper.GetString(redisHost.flagKey),
		RedisPassword:  viper.GetString(redisPassword.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	if err := app.Run(ctx, appConfig); err != nil {
		log.Fatal(err)
	}
}
