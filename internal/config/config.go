// Package config resolves Ferrum's environment-variable configuration,
// following the teacher's atomic.Pointer caching idiom from load.go: a
// swappable function handle cached after first use, reset via ResetConfig
// for tests that need a clean slate.
package config

import (
	"os"
	"sync/atomic"
)

// Config is Ferrum's resolved runtime configuration.
type Config struct {
	// ListenAddr is the address the (future) network listener binds to.
	ListenAddr string
}

const defaultListenAddr = ":4117"

func loadConfig() (Config, error) {
	addr := os.Getenv("FERRUM_LISTEN_ADDR")
	if addr == "" {
		addr = defaultListenAddr
	}
	return Config{ListenAddr: addr}, nil
}

// Load returns the process's configuration, read from environment
// variables and cached after the first call. See ResetConfig to clear the
// cache.
//
// Env vars:
//
// FERRUM_LISTEN_ADDR: optional. Defaults to ":4117".
func Load() (Config, error) {
	fn := loadConfigHandle.Load()
	if fn == nil {
		return Config{}, nil
	}
	cfg, err := (*fn)()
	if err != nil {
		return cfg, err
	}
	cached := func() (Config, error) { return cfg, nil }
	loadConfigHandle.Store(&cached)
	return cfg, nil
}

// ResetConfig resets the cached configuration Load uses.
func ResetConfig() {
	fn := loadConfig
	loadConfigHandle.Store(&fn)
}

var loadConfigHandle atomic.Pointer[func() (Config, error)]

func init() {
	ResetConfig()
}
