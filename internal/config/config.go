package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// IdentityConfig selects and parameterizes the identity provider.
// Mode "remote" talks to the hosted users service; "local" runs the built-in
// provider, which is what development and tests use.
type IdentityConfig struct {
	Mode     string
	APIURL   string
	APIKey   string
	DevEmail string
	DevName  string
}

type Config struct {
	Addr          string
	DatabasePath  string
	BaseURL       string
	LogsDirectory string
	Identity      IdentityConfig
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return &Config{
		Addr:          getenv("ADDR", ":8080"),
		DatabasePath:  getenv("DATABASE_PATH", "cargotrack.sqlite3"),
		BaseURL:       getenv("BASE_URL", "http://localhost:8080"),
		LogsDirectory: os.Getenv("LOGS_DIRECTORY"),
		Identity: IdentityConfig{
			Mode:     getenv("IDENTITY_MODE", "local"),
			APIURL:   os.Getenv("IDENTITY_API_URL"),
			APIKey:   os.Getenv("IDENTITY_API_KEY"),
			DevEmail: getenv("IDENTITY_DEV_EMAIL", "dev@localhost"),
			DevName:  getenv("IDENTITY_DEV_NAME", "Dev User"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
