package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	AuthHMACSecret  string
	EnableDevTokens bool

	CORSOrigins []string

	// CatalogURL switches the manifest provider to a remote catalog
	// service. Empty means courses live in the local database.
	CatalogURL     string
	CatalogTimeout time.Duration

	QuizRequireAllAnswers   bool
	QuizDefaultPassingScore int
	SessionSweepSpec        string
}

// Load reads .env (if present) and then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env: %v", err)
	}
	return FromEnv()
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:                    mode,
		HTTPAddr:                envOr("HTTP_ADDR", ":8080"),
		DBDriver:                envOr("DB_DRIVER", "sqlite"),
		DBDSN:                   envOr("DB_DSN", ""),
		AuthHMACSecret:          envOr("AUTH_HMAC_SECRET", "dev-secret-change-me"),
		EnableDevTokens:         envBool("ENABLE_DEV_TOKENS", mode == ModeOffline),
		CORSOrigins:             csvOr("CORS_ORIGINS", "http://localhost:3000"),
		CatalogURL:              envOr("CATALOG_URL", ""),
		CatalogTimeout:          envDuration("CATALOG_TIMEOUT", 5*time.Second),
		QuizRequireAllAnswers:   envBool("QUIZ_REQUIRE_ALL_ANSWERS", false),
		QuizDefaultPassingScore: envInt("QUIZ_DEFAULT_PASSING_SCORE", 70),
		SessionSweepSpec:        envOr("SESSION_SWEEP_SPEC", "@every 5s"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return n
}

func envDuration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
