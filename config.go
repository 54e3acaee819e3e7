package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultStorePath  = "bibliotheque.json"
	defaultExportPath = "bibliotheque.csv"
	defaultLogLevel   = "warn"
)

// Config holds the settings that can come from the environment (or a .env
// file) and be overridden by flags.
type Config struct {
	StorePath  string
	ExportPath string
	LogLevel   string
	Seed       bool
}

// LoadConfig reads .env when present, then the CATALOG_* variables.
func LoadConfig() Config {
	_ = godotenv.Load() // a missing .env is fine

	return Config{
		StorePath:  env("CATALOG_STORE_PATH", defaultStorePath),
		ExportPath: env("CATALOG_EXPORT_PATH", defaultExportPath),
		LogLevel:   env("CATALOG_LOG_LEVEL", defaultLogLevel),
		Seed:       envBool("CATALOG_SEED", true),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}
