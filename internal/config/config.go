// Package config reads environment-derived defaults. A .env file in the
// working directory is honored when present; explicit flags always win
// over anything loaded here.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// PythonBin is the interpreter used to run the engine helper.
	PythonBin string
	// ModelCacheDir overrides the platform default model cache location.
	ModelCacheDir string
}

func Load() Config {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	return Config{
		PythonBin:     getEnv("SCRIBE_PYTHON", "python3"),
		ModelCacheDir: os.Getenv("SCRIBE_MODEL_CACHE"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
