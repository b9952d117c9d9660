package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    string
	Environment   string
	LogLevel      string
	LogFormat     string
	DefaultUserID string

	// Durable store
	StoreDriver   string // memory, sqlite, redis, firestore, mongo
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MongoURI      string
	MongoDB       string

	// Firebase / Google Cloud
	FirebaseProject            string
	FirebaseServiceAccountPath string
	FirebaseServiceAccountJSON string

	// Photo uploads
	PhotoBackend  string // none, gcs, s3
	StorageBucket string
	S3Region      string
	S3Endpoint    string

	// Per-user action limits
	SubmitRateLimit int
	ReviewRateLimit int
	RateLimitWindow time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		DefaultUserID: getEnv("DEFAULT_USER_ID", "user-1"),

		StoreDriver:   getEnv("STORE_DRIVER", "sqlite"),
		SQLitePath:    getEnv("SQLITE_PATH", "./data/ratpatrol.db"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "ratpatrol"),

		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		FirebaseServiceAccountJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),

		PhotoBackend:  getEnv("PHOTO_BACKEND", "none"),
		StorageBucket: getEnv("STORAGE_BUCKET", ""),
		S3Region:      getEnv("S3_REGION", "ap-northeast-1"),
		S3Endpoint:    getEnv("S3_ENDPOINT", ""),

		SubmitRateLimit: getEnvAsInt("SUBMIT_RATE_LIMIT", 10),
		ReviewRateLimit: getEnvAsInt("REVIEW_RATE_LIMIT", 60),
		RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
	}

	return config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
