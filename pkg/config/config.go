package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	DBDriver    string
	PostgresURL string
	SQLitePath  string

	JWTSecret   string
	JWTTokenTTL time.Duration

	AdminEmail    string
	AdminPassword string

	// AnonLikeKey selects how anonymous likers are identified: "ip" or "token".
	AnonLikeKey string
	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	MongoURI      string
	MongoDB       string
	KafkaBrokers  []string
	KafkaTopic    string

	FirebaseCredentialsPath string

	RankingsCron string
	RankingsTTL  time.Duration
}

// Load reads configuration from the environment, loading .env first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("APP_ENV", "development"),
		DBDriver:                getEnv("DB_DRIVER", "postgres"),
		PostgresURL:             getEnv("POSTGRES_CONN_STR", ""),
		SQLitePath:              getEnv("SQLITE_PATH", "gammy.db"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		JWTTokenTTL:             time.Duration(getEnvInt("JWT_TTL_HOURS", 168)) * time.Hour,
		AdminEmail:              getEnv("ADMIN_EMAIL", "admin@gammy.local"),
		AdminPassword:           getEnv("ADMIN_PASSWORD", ""),
		AnonLikeKey:             getEnv("ANON_LIKE_KEY", "ip"),
		CORSOrigins:             getEnvList("CORS_ORIGINS", []string{"*"}),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDB:                 getEnv("MONGO_DB", "gammy"),
		KafkaBrokers:            getEnvList("KAFKA_BROKERS", nil),
		KafkaTopic:              getEnv("KAFKA_TOPIC", "gammy.events"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		RankingsCron:            getEnv("RANKINGS_CRON", "@every 5m"),
		RankingsTTL:             getEnvDuration("RANKINGS_TTL", 10*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
