package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env                  string
	MongoURI             string
	MongoDB              string
	ServerAddr           string
	FrontendOrigins      []string
	DefaultLocale        string
	RateLimitSubmissions int
	RateLimitLeads       int
	RateLimitWindowSec   int
	RedisURL             string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	CacheTTLSeconds      int
	AdminAPIKey          string
	AdminUser            string
	AdminPassword        string
	JWTSecret            string
	AccessTTLMinutes     int
	RefreshTTLMinutes    int
	CookieSecure         bool
	CronSecret           string
	IngestFeedURL        string
	BrevoAPIKey          string
	BrevoSenderEmail     string
	BrevoSenderName      string
	BrevoSandbox         bool
	AdminNotifyEmail     string
	Timezone             *time.Location
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
	loadDotEnv(".env")
	loc, err := time.LoadLocation(getEnv("TZ", "Europe/Amsterdam"))
	if err != nil {
		return nil, err
	}

	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017/vibecodespace")
	mongoDB := getEnv("MONGO_DB", "")
	if mongoDB == "" {
		mongoDB = mongoDBFromURI(mongoURI)
	}
	if mongoDB == "" {
		mongoDB = "vibecodespace"
	}

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		MongoURI:             mongoURI,
		MongoDB:              mongoDB,
		ServerAddr:           getEnv("SERVER_ADDR", ":8080"),
		FrontendOrigins:      splitOrigins(getEnv("FRONTEND_ORIGINS", "http://localhost:3000")),
		DefaultLocale:        getEnv("DEFAULT_LOCALE", "nl"),
		RateLimitSubmissions: getEnvInt("RATE_LIMIT_SUBMISSIONS", 5),
		RateLimitLeads:       getEnvInt("RATE_LIMIT_LEADS", 10),
		RateLimitWindowSec:   getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
		RedisURL:             getEnv("REDIS_URL", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds:      getEnvInt("CACHE_TTL_SECONDS", 60),
		AdminAPIKey:          getEnv("ADMIN_API_KEY", ""),
		AdminUser:            getEnv("ADMIN_USER", "admin"),
		AdminPassword:        getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		AccessTTLMinutes:     getEnvInt("ACCESS_TTL_MINUTES", 15),
		RefreshTTLMinutes:    getEnvInt("REFRESH_TTL_MINUTES", 43200),
		CookieSecure:         getEnv("COOKIE_SECURE", "false") == "true",
		CronSecret:           getEnv("CRON_SECRET", ""),
		IngestFeedURL:        getEnv("INGEST_FEED_URL", ""),
		BrevoAPIKey:          getEnv("BREVO_API_KEY", ""),
		BrevoSenderEmail:     getEnv("BREVO_SENDER_EMAIL", ""),
		BrevoSenderName:      getEnv("BREVO_SENDER_NAME", "VibeCodeSpace"),
		BrevoSandbox:         getEnv("BREVO_SANDBOX", "false") == "true",
		AdminNotifyEmail:     getEnv("ADMIN_NOTIFY_EMAIL", ""),
		Timezone:             loc,
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
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
	// mongodb URIs sometimes include extra path segments; only the first one is the db name.
	if idx := strings.Index(db, "/"); idx >= 0 {
		db = db[:idx]
	}
	return db
}

func loadDotEnv(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		_ = os.Setenv(key, val)
	}
}
