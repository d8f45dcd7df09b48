package config

import (
	"os"
	"time"
)

// Timeouts holds the budgets for the blocking waits in the provisioning
// sequence. Each can be customized via environment variables.
type Timeouts struct {
	DatabaseReady   time.Duration // MariaDB StatefulSet readiness
	DeploymentReady time.Duration // application tier readiness
	StoreSetup      time.Duration // WooCommerce setup job completion
}

// LoadTimeouts loads timeout configuration from environment variables.
// If a variable is not set or invalid, the default is used.
//
// Environment Variables:
//   - STOREPLANE_TIMEOUT_DATABASE_READY (default: 2m)
//   - STOREPLANE_TIMEOUT_DEPLOYMENT_READY (default: 5m)
//   - STOREPLANE_TIMEOUT_STORE_SETUP (default: 10m)
func LoadTimeouts() Timeouts {
	return Timeouts{
		DatabaseReady:   parseDuration("STOREPLANE_TIMEOUT_DATABASE_READY", 2*time.Minute),
		DeploymentReady: parseDuration("STOREPLANE_TIMEOUT_DEPLOYMENT_READY", 5*time.Minute),
		StoreSetup:      parseDuration("STOREPLANE_TIMEOUT_STORE_SETUP", 10*time.Minute),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}
