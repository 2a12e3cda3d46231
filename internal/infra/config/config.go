package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// CursorStart selects where the first poll starts from.
type CursorStart string

const (
	// StartFromZero replays the full homework history once on startup.
	StartFromZero CursorStart = "zero"
	// StartFromNow reports only changes that happen after startup.
	StartFromNow CursorStart = "now"
)

// SendFailurePolicy decides what a failed Telegram delivery does to the
// current poll iteration.
type SendFailurePolicy string

const (
	// PolicySwallow logs the delivery error and keeps the iteration going.
	PolicySwallow SendFailurePolicy = "swallow"
	// PolicyPropagate aborts the iteration like any other error.
	PolicyPropagate SendFailurePolicy = "propagate"
)

// DefaultEndpoint is the homework statuses API of Практикум.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

// AppConfig holds all configuration for the application.
type AppConfig struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID int64

	Endpoint      string
	PollInterval  time.Duration
	HTTPTimeout   time.Duration
	StartFrom     CursorStart
	FailurePolicy SendFailurePolicy
	LogLevel      string
	LogFile       string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{
		PracticumToken: os.Getenv("PRACTICUM_TOKEN"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
	}

	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")

	// All three secrets are required; report every missing one at once so
	// the operator fixes the environment in a single pass.
	var missing []string
	if cfg.PracticumToken == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}
	if cfg.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if chatIDStr == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}

	var err error
	cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}

	cfg.Endpoint = getEnv("ENDPOINT", DefaultEndpoint)

	pollSeconds, err := getEnvInt("POLL_INTERVAL_SECONDS", 600)
	if err != nil {
		return nil, err
	}
	if pollSeconds <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL_SECONDS must be > 0, got %d", pollSeconds)
	}
	cfg.PollInterval = time.Duration(pollSeconds) * time.Second

	timeoutSeconds, err := getEnvInt("HTTP_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	if timeoutSeconds <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT_SECONDS must be > 0, got %d", timeoutSeconds)
	}
	cfg.HTTPTimeout = time.Duration(timeoutSeconds) * time.Second

	switch start := CursorStart(strings.ToLower(getEnv("START_FROM", string(StartFromZero)))); start {
	case StartFromZero, StartFromNow:
		cfg.StartFrom = start
	default:
		return nil, fmt.Errorf("START_FROM must be %q or %q, got %q", StartFromZero, StartFromNow, start)
	}

	switch policy := SendFailurePolicy(strings.ToLower(getEnv("NOTIFY_FAILURE_POLICY", string(PolicySwallow)))); policy {
	case PolicySwallow, PolicyPropagate:
		cfg.FailurePolicy = policy
	default:
		return nil, fmt.Errorf("NOTIFY_FAILURE_POLICY must be %q or %q, got %q", PolicySwallow, PolicyPropagate, policy)
	}

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "debug"))
	cfg.LogFile = getEnv("LOG_FILE", "bot.log")

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for env %s: %q", key, v)
	}
	return i, nil
}
