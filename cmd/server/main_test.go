package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iho/billingledger/internal/infrastructure/config"
)

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{
		HTTPPort:         "9090",
		HTTPReadTimeout:  5 * time.Second,
		HTTPWriteTimeout: 6 * time.Second,
		HTTPIdleTimeout:  7 * time.Second,
	}
	h := http.NewServeMux()

	server := newHTTPServer(cfg, h)

	assert.Equal(t, ":9090", server.Addr)
	assert.Equal(t, 5*time.Second, server.ReadTimeout)
	assert.Equal(t, 6*time.Second, server.WriteTimeout)
	assert.Equal(t, 7*time.Second, server.IdleTimeout)
	assert.Same(t, h, server.Handler)
}

func TestSourceConfig(t *testing.T) {
	cfg := &config.Config{BlockTimeCacheTTL: time.Hour, RPCMaxRetries: 3}

	sc := sourceConfig(cfg)

	assert.Equal(t, time.Hour, sc.CacheTTL)
	assert.Equal(t, uint64(3), sc.MaxRetries)
}
