package config

import (
	"fmt"
	"log"
	"os"
	"time"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env             string
	Port            string
	MongoURI        string
	DBName          string
	JWTSecret       string
	JWTIssuer       string
	TokenTTL        time.Duration
	AdminEmail      string
	AdminPassword   string
	AdminName       string
	RedisAddr       string
	RateLimitPerMin int
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	MinioUseSSL     bool
}

// Load returns application config populated from environment variables with
// development defaults. REDIS_ADDR and MINIO_ENDPOINT are optional; leaving
// them empty disables rate limiting and photo object storage.
func Load() App {
	return App{
		Env:             getEnv("APP_ENV", "dev"),
		Port:            getEnv("PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:          getEnv("DB_NAME", "student_records"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-signing-secret-change"),
		JWTIssuer:       getEnv("JWT_ISSUER", "student-records"),
		TokenTTL:        durationEnv("TOKEN_TTL", 4*time.Hour),
		AdminEmail:      getEnv("ADMIN_EMAIL", "admin@school.edu"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "change-me-admin"),
		AdminName:       getEnv("ADMIN_NAME", "Administrator"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 30),
		MinioEndpoint:   getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:     getEnv("MINIO_BUCKET", "student-photos"),
		MinioUseSSL:     boolEnv("MINIO_USE_SSL", false),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if val == "1" || val == "true" || val == "TRUE" {
			return true
		}
		if val == "0" || val == "false" || val == "FALSE" {
			return false
		}
		log.Printf("invalid bool for %s, using fallback %v", key, fallback)
	}
	return fallback
}
