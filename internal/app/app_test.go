package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *AppConfig {
	return &AppConfig{
		Host:           "127.0.0.1",
		Port:           8080,
		LogLevel:       "info",
		MembersLimit:   0,
		SyncInterval:   10 * time.Second,
		DriftThreshold: 2,
		DedupStore:     DedupStoreMemory,
		DedupWindow:    time.Hour,
		DedupSize:      1024,
	}
}

func TestAppConfig_Validate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"port", func(c *AppConfig) { c.Port = 0 }},
		{"log level", func(c *AppConfig) { c.LogLevel = "loud" }},
		{"members limit", func(c *AppConfig) { c.MembersLimit = -1 }},
		{"sync interval", func(c *AppConfig) { c.SyncInterval = -time.Second }},
		{"drift threshold", func(c *AppConfig) { c.DriftThreshold = 0 }},
		{"dedup window", func(c *AppConfig) { c.DedupWindow = 0 }},
		{"dedup size", func(c *AppConfig) { c.DedupSize = 0 }},
		{"dedup store", func(c *AppConfig) { c.DedupStore = "disk" }},
		{"redis host", func(c *AppConfig) { c.DedupStore = DedupStoreRedis; c.RedisHost = "" }},
		{"public url", func(c *AppConfig) { c.PublicURL = "tt.example" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}

func runApp(t *testing.T, cfg *AppConfig) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, cfg)
	}()

	healthURL := fmt.Sprintf("http://%s:%d/api/v1/healthz", cfg.Host, cfg.Port)
	assert.Eventually(t, func() bool {
		resp, err := http.Get(healthURL)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_MemoryStore(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "error"
	cfg.Port = freePort(t)

	runApp(t, cfg)
}

func TestRun_RedisStore(t *testing.T) {
	s := miniredis.RunT(t)
	port, err := strconv.Atoi(s.Port())
	require.NoError(t, err)

	cfg := validConfig()
	cfg.LogLevel = "error"
	cfg.Port = freePort(t)
	cfg.DedupStore = DedupStoreRedis
	cfg.RedisHost = s.Host()
	cfg.RedisPort = port

	runApp(t, cfg)
}

func TestRun_RedisUnavailable(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "error"
	cfg.Port = freePort(t)
	cfg.DedupStore = DedupStoreRedis
	cfg.RedisHost = "127.0.0.1"
	cfg.RedisPort = freePort(t)

	assert.Error(t, Run(context.Background(), cfg))
}
