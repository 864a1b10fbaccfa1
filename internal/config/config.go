package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env              string
	MongoURI         string
	MongoDB          string
	ServerAddr       string
	FrontendOrigin   string
	JWTSecret        string
	TokenTTLMinutes  int
	RedisURL         string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CacheTTLSeconds  int
	BrevoAPIKey      string
	BrevoSenderEmail string
	BrevoSenderName  string
	BrevoSandbox     bool
	ContactEmail     string
	ExpoPushEndpoint string
	KafkaBrokers     []string
	KafkaTopic       string
	RateLimitAuth    int
	RateLimitBooking int
	Timezone         *time.Location
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	loc, err := time.LoadLocation(getEnv("TZ", "America/Toronto"))
	if err != nil {
		return nil, err
	}

	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017/shelby")
	mongoDB := getEnv("MONGO_DB", "")
	if mongoDB == "" {
		mongoDB = mongoDBFromURI(mongoURI)
	}
	if mongoDB == "" {
		mongoDB = "shelby"
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		MongoURI:         mongoURI,
		MongoDB:          mongoDB,
		ServerAddr:       getEnv("SERVER_ADDR", ":5001"),
		FrontendOrigin:   getEnv("FRONTEND_ORIGIN", "*"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		TokenTTLMinutes:  getEnvInt("TOKEN_TTL_MINUTES", 60),
		RedisURL:         getEnv("REDIS_URL", ""),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds:  getEnvInt("CACHE_TTL_SECONDS", 60),
		BrevoAPIKey:      getEnv("BREVO_API_KEY", ""),
		BrevoSenderEmail: getEnv("BREVO_SENDER_EMAIL", ""),
		BrevoSenderName:  getEnv("BREVO_SENDER_NAME", "Shelby Auto Detailing"),
		BrevoSandbox:     getEnv("BREVO_SANDBOX", "false") == "true",
		ContactEmail:     getEnv("CONTACT_EMAIL", getEnv("BREVO_SENDER_EMAIL", "")),
		ExpoPushEndpoint: getEnv("EXPO_PUSH_ENDPOINT", "https://exp.host/--/api/v2/push/send"),
		KafkaBrokers:     splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "booking-events"),
		RateLimitAuth:    getEnvInt("RATE_LIMIT_AUTH", 10),
		RateLimitBooking: getEnvInt("RATE_LIMIT_BOOKING", 10),
		Timezone:         loc,
	}

	return cfg, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func mongoDBFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	db := strings.Trim(u.Path, "/")
	if db == "" {
		return ""
	}
	if idx := strings.Index(db, "/"); idx >= 0 {
		db = db[:idx]
	}
	return db
}
