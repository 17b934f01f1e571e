package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferrumdb/ferrum/internal/config"
)

func TestLoadDefaultsListenAddr(t *testing.T) {
	os.Unsetenv("FERRUM_LISTEN_ADDR")
	config.ResetConfig()

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":4117", cfg.ListenAddr)
}

func TestLoadReadsListenAddrFromEnv(t *testing.T) {
	os.Setenv("FERRUM_LISTEN_ADDR", ":9999")
	defer os.Unsetenv("FERRUM_LISTEN_ADDR")
	config.ResetConfig()

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.ListenAddr)
}
