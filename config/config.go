package config

import (
	"fmt"
	"os"

	"mlm-storefront/storage"
)

// Config is the environment-driven configuration for the client.
type Config struct {
	APIBaseURL     string
	StorageBackend string // memory, file, redis or mongo
	StorageDir     string
	RedisURL       string
	MongoURI       string
	JWTSecret      string
	Port           string
}

// FromEnv reads configuration from the environment with workable local
// defaults. Call godotenv.Load first if a .env file should contribute.
func FromEnv() *Config {
	return &Config{
		APIBaseURL:     getenv("API_BASE_URL", "http://localhost:8000"),
		StorageBackend: getenv("STORAGE_BACKEND", "file"),
		StorageDir:     getenv("STORAGE_DIR", ".storefront"),
		RedisURL:       getenv("REDIS_URL", "redis://localhost:6379"),
		MongoURI:       getenv("MONGO_URI", "mongodb://localhost:27017"),
		JWTSecret:      getenv("JWT_SECRET", "dev_secret"),
		Port:           getenv("PORT", "8000"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// OpenStore builds the durable store named by the configuration.
func (c *Config) OpenStore() (storage.Store, error) {
	switch c.StorageBackend {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "file":
		return storage.NewFileStore(c.StorageDir)
	case "redis":
		return storage.NewRedisStore(c.RedisURL)
	case "mongo":
		return storage.NewMongoStore(c.MongoURI)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}
