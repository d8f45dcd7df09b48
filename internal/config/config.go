// Package config loads platform configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port        string
	Environment string
	CORSOrigin  string

	// BaseDomain is the external domain stores are exposed under; public
	// hostnames are derived as <storeID>.<BaseDomain>.
	BaseDomain string

	// Kubeconfig is the path used when the process runs outside the cluster.
	Kubeconfig string

	Timeouts Timeouts
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getenv("PORT", "3001"),
		Environment: getenv("ENVIRONMENT", "development"),
		CORSOrigin:  getenv("CORS_ORIGIN", "*"),
		BaseDomain:  getenv("BASE_DOMAIN", "127.0.0.1.nip.io"),
		Kubeconfig:  getenv("KUBECONFIG", defaultKubeconfig()),
		Timeouts:    LoadTimeouts(),
	}
}

func defaultKubeconfig() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kube", "config")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
