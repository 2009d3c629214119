package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
)

type Config struct {
	HTTPAddr        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	DatabaseURL string
	// TxRetries caps how often a unit of work is retried on transient database errors.
	TxRetries uint64

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
	// MailWorker runs the queue consumer in this process.
	MailWorker bool

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	Currency currency.Unit
	LogLevel slog.Level
}

func Load() (Config, error) {
	var errs []error

	cfg := Config{
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "order-notifications"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "orderflow-mail-worker"),
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "orders@orderflow.local"),
	}

	var err error

	if cfg.RequestTimeout, err = time.ParseDuration(getEnv("REQUEST_TIMEOUT", "30s")); err != nil {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT: %w", err))
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")); err != nil {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err))
	}
	if cfg.TxRetries, err = strconv.ParseUint(getEnv("TX_RETRIES", "4"), 10, 32); err != nil {
		errs = append(errs, fmt.Errorf("TX_RETRIES: %w", err))
	}
	if cfg.SMTPPort, err = strconv.Atoi(getEnv("SMTP_PORT", "1025")); err != nil {
		errs = append(errs, fmt.Errorf("SMTP_PORT: %w", err))
	}
	if cfg.MailWorker, err = strconv.ParseBool(getEnv("MAIL_WORKER", "true")); err != nil {
		errs = append(errs, fmt.Errorf("MAIL_WORKER: %w", err))
	}
	if cfg.Currency, err = currency.ParseISO(getEnv("CURRENCY", "USD")); err != nil {
		errs = append(errs, fmt.Errorf("CURRENCY: %w", err))
	}
	if err = cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "INFO"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("cfg.Validate: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is empty")
	}
	if c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is empty")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT[%d] out of range", c.SMTPPort)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
