package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type NotifyMode string

const (
	NotifyKafka  NotifyMode = "kafka"
	NotifyInline NotifyMode = "inline"
	NotifyOff    NotifyMode = "off"
)

type Config struct {
	HTTPPort        string        `yaml:"http_port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LogLevel        string        `yaml:"log_level"`
	// DevLogin exposes POST /api/v1/session for local sign-in without a
	// separate identity provider.
	DevLogin bool `yaml:"dev_login"`

	DB     Postgres `yaml:"database"`
	Menu   Menu     `yaml:"menu"`
	Redis  Redis    `yaml:"redis"`
	Kafka  Kafka    `yaml:"kafka"`
	Notify Notify   `yaml:"notify"`
	Mail   Mail     `yaml:"mail"`
}

type Postgres struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	Name           string `yaml:"name"`
	MigrationsPath string `yaml:"migrations_path"`
}

type Menu struct {
	DBPath         string `yaml:"db_path"`
	MigrationsPath string `yaml:"migrations_path"`
}

type Redis struct {
	Addr       string        `yaml:"addr"`
	Password   string        `yaml:"password"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

type Notify struct {
	Mode    NotifyMode    `yaml:"mode"`
	Timeout time.Duration `yaml:"timeout"`
}

type Mail struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

func Default() *Config {
	return &Config{
		HTTPPort:        "8080",
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		DB: Postgres{
			Host:           "localhost",
			Port:           5432,
			User:           "kitchen",
			Password:       "kitchen",
			Name:           "kitchen",
			MigrationsPath: "internal/repository/migrations",
		},
		Menu: Menu{
			DBPath:         "menu.db",
			MigrationsPath: "internal/catalog/migrations",
		},
		Redis: Redis{
			Addr:       "localhost:6379",
			SessionTTL: 30 * time.Minute,
		},
		Kafka: Kafka{
			Brokers: []string{"localhost:9092"},
			Topic:   "order-events",
			GroupID: "kitchen-notifier",
		},
		Notify: Notify{
			Mode:    NotifyKafka,
			Timeout: 3 * time.Second,
		},
		Mail: Mail{
			Host:     "localhost",
			Port:     587,
			From:     "orders@kitchen.local",
			FromName: "Kitchen",
		},
	}
}

// Load starts from the defaults, applies the YAML file at path when given
// and finally the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Notify.Mode {
	case NotifyKafka, NotifyInline, NotifyOff:
	default:
		errs = append(errs, fmt.Errorf("unknown notify mode %q", c.Notify.Mode))
	}
	if c.Notify.Mode == NotifyKafka && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka notify mode needs at least one broker"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Redis.SessionTTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	return errors.Join(errs...)
}

func applyEnv(c *Config) error {
	var errs []error
	durations := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	ints := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	bools := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	c.HTTPPort = getEnv("HTTP_PORT", c.HTTPPort)
	durations("REQUEST_TIMEOUT", &c.RequestTimeout)
	durations("SHUTDOWN_TIMEOUT", &c.ShutdownTimeout)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	bools("DEV_LOGIN", &c.DevLogin)

	c.DB.Host = getEnv("DB_HOST", c.DB.Host)
	ints("DB_PORT", &c.DB.Port)
	c.DB.User = getEnv("DB_USER", c.DB.User)
	c.DB.Password = getEnv("DB_PASSWORD", c.DB.Password)
	c.DB.Name = getEnv("DB_NAME", c.DB.Name)
	c.DB.MigrationsPath = getEnv("MIGRATIONS_PATH", c.DB.MigrationsPath)

	c.Menu.DBPath = getEnv("MENU_DB_PATH", c.Menu.DBPath)
	c.Menu.MigrationsPath = getEnv("MENU_MIGRATIONS_PATH", c.Menu.MigrationsPath)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	durations("SESSION_TTL", &c.Redis.SessionTTL)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	c.Kafka.Topic = getEnv("ORDER_EVENTS_TOPIC", c.Kafka.Topic)
	c.Kafka.GroupID = getEnv("KAFKA_GROUP_ID", c.Kafka.GroupID)

	c.Notify.Mode = NotifyMode(strings.ToLower(getEnv("NOTIFY_MODE", string(c.Notify.Mode))))
	durations("NOTIFY_TIMEOUT", &c.Notify.Timeout)

	bools("EMAIL_ENABLED", &c.Mail.Enabled)
	c.Mail.Host = getEnv("SMTP_HOST", c.Mail.Host)
	ints("SMTP_PORT", &c.Mail.Port)
	c.Mail.User = getEnv("SMTP_USER", c.Mail.User)
	c.Mail.Password = getEnv("SMTP_PASSWORD", c.Mail.Password)
	c.Mail.From = getEnv("MAIL_FROM", c.Mail.From)
	c.Mail.FromName = getEnv("MAIL_FROM_NAME", c.Mail.FromName)

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
