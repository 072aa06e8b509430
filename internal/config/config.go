package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BotToken     string // пусто — бот не запускается
	AdminChatIDs []int64
	Location     *time.Location
	HTTPAddr     string
	LogLevel     string
	Env          string // dev|prod
	SentryDSN    string
	ExportDir    string

	RegNoPrefix     string
	DefaultPassword string
	FallbackTuition int64
	FeeDueDays      int

	OverdueSweepInterval time.Duration
	ReconcileInterval    time.Duration
}

func Load() (*Config, error) {
	tz := getenv("TZ", "Asia/Kolkata")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	adminIDs, err := parseIDs(os.Getenv("ADMIN_CHAT_IDS"))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_CHAT_IDS: %w", err)
	}
	tuition, err := getInt("FALLBACK_TUITION", 20000)
	if err != nil {
		return nil, err
	}
	dueDays, err := getInt("FEE_DUE_DAYS", 30)
	if err != nil {
		return nil, err
	}
	sweep, err := getDuration("OVERDUE_SWEEP_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	reconcile, err := getDuration("RECONCILE_INTERVAL", 10*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BotToken:             os.Getenv("BOT_TOKEN"),
		AdminChatIDs:         adminIDs,
		Location:             loc,
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		LogLevel:             getenv("LOG_LEVEL", "info"),
		Env:                  getenv("ENV", "dev"),
		SentryDSN:            os.Getenv("SENTRY_DSN"),
		ExportDir:            getenv("EXPORT_DIR", os.TempDir()),
		RegNoPrefix:          getenv("REGNO_PREFIX", "SCHL"),
		DefaultPassword:      getenv("DEFAULT_PASSWORD", "welcome"),
		FallbackTuition:      int64(tuition),
		FeeDueDays:           dueDays,
		OverdueSweepInterval: sweep,
		ReconcileInterval:    reconcile,
	}
	if cfg.RegNoPrefix == "" {
		return nil, fmt.Errorf("REGNO_PREFIX is empty")
	}
	return cfg, nil
}

// Defaults — конфигурация без окружения (тесты, сиды).
func Defaults() *Config {
	return &Config{
		Location:             time.UTC,
		HTTPAddr:             ":8080",
		LogLevel:             "info",
		Env:                  "dev",
		ExportDir:            os.TempDir(),
		RegNoPrefix:          "SCHL",
		DefaultPassword:      "welcome",
		FallbackTuition:      20000,
		FeeDueDays:           30,
		OverdueSweepInterval: time.Hour,
		ReconcileInterval:    10 * time.Minute,
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}

func parseIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}
