package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BASE_DOMAIN", "")
	t.Setenv("STOREPLANE_TIMEOUT_DEPLOYMENT_READY", "")

	cfg := Load()
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "127.0.0.1.nip.io", cfg.BaseDomain)
	assert.Equal(t, 5*time.Minute, cfg.Timeouts.DeploymentReady)
}

func TestLoadTimeouts_Override(t *testing.T) {
	t.Setenv("STOREPLANE_TIMEOUT_DEPLOYMENT_READY", "90s")
	timeouts := LoadTimeouts()
	assert.Equal(t, 90*time.Second, timeouts.DeploymentReady)
	assert.Equal(t, 2*time.Minute, timeouts.DatabaseReady)
}

func TestLoadTimeouts_InvalidFallsBack(t *testing.T) {
	t.Setenv("STOREPLANE_TIMEOUT_STORE_SETUP", "not-a-duration")
	timeouts := LoadTimeouts()
	assert.Equal(t, 10*time.Minute, timeouts.StoreSetup)
}
