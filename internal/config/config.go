package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	ProviderKafka = "kafka"
	ProviderNovu  = "novu"
	ProviderLog   = "log"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the configuration of the tasks API binary.
type Config struct {
	Env            string        `yaml:"env" env:"ENV" env-default:"dev"`
	TasksAddress   string        `yaml:"tasks_address" env:"TASKS_ADDRESS" env-default:":50051"`
	MetricsAddress string        `yaml:"metrics_address" env:"METRICS_ADDRESS" env-default:":9090"`
	Auth           Auth          `yaml:"auth"`
	Seed           Seed          `yaml:"seed"`
	Notifications  Notifications `yaml:"notifications"`
	Kafka          Kafka         `yaml:"kafka"`
	Novu           Novu          `yaml:"novu"`
}

type Auth struct {
	JWTSecret string        `yaml:"-" env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"24h"`
	HashCost  int           `yaml:"hash_cost" env:"HASH_COST" env-default:"10"`
}

type Seed struct {
	TasksPerGuest int `yaml:"tasks_per_guest" env:"TASKS_PER_GUEST" env-default:"10"`
}

type Notifications struct {
	Provider   string        `yaml:"provider" env:"NOTIFICATIONS_PROVIDER" env-default:"kafka"`
	WorkflowId string        `yaml:"workflow_id" env:"NOTIFICATIONS_WORKFLOW_ID" env-default:"task-completed-notification"`
	Timeout    time.Duration `yaml:"timeout" env:"NOTIFICATIONS_TIMEOUT" env-default:"5s"`
}

type Kafka struct {
	Brokers         []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	GroupId         string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"notifications"`
	TriggerTopic    string   `yaml:"trigger_topic" env:"KAFKA_TRIGGER_TOPIC" env-default:"notification-triggers"`
	SubscriberTopic string   `yaml:"subscriber_topic" env:"KAFKA_SUBSCRIBER_TOPIC" env-default:"notification-subscribers"`
}

type Novu struct {
	BackendURL string `yaml:"backend_url" env:"NOVU_BACKEND_URL" env-default:"https://api.novu.co"`
	APIKey     string `yaml:"-" env:"NOVU_API_KEY"`
}

// GatewayConfig is the configuration of the HTTP gateway binary.
type GatewayConfig struct {
	Env            string        `yaml:"env" env:"ENV" env-default:"dev"`
	Address        string        `yaml:"address" env:"GATEWAY_ADDRESS" env-default:":8080"`
	TasksAddress   string        `yaml:"tasks_address" env:"TASKS_ADDRESS" env-default:"localhost:50051"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"GATEWAY_REQUEST_TIMEOUT" env-default:"10s"`
	Redis          Redis         `yaml:"redis"`
	RateLimiter    RateLimiter   `yaml:"rate_limiter"`
}

type Redis struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type RateLimiter struct {
	Disabled bool `yaml:"disabled" env:"RATE_LIMIT_DISABLED"`
	RPS      int  `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"10"`
	Burst    int  `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"20"`
}

// NotifierConfig is the configuration of the notification worker binary.
type NotifierConfig struct {
	Env        string `yaml:"env" env:"ENV" env-default:"dev"`
	WorkflowId string `yaml:"workflow_id" env:"NOTIFICATIONS_WORKFLOW_ID" env-default:"task-completed-notification"`
	Kafka      Kafka  `yaml:"kafka"`
	Redis      Redis  `yaml:"redis"`
	SMTP       SMTP   `yaml:"smtp"`
}

type SMTP struct {
	Email    string `yaml:"email" env:"SMTP_EMAIL" env-required:"true"`
	Password string `yaml:"-" env:"SMTP_PASSWORD"`
	Host     string `yaml:"host" env:"SMTP_HOST" env-required:"true"`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
}

func (c *Config) Validate() error {
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("%w: auth.token_ttl must be positive", ErrInvalidConfig)
	}
	if c.Seed.TasksPerGuest < 0 {
		return fmt.Errorf("%w: seed.tasks_per_guest must not be negative", ErrInvalidConfig)
	}

	switch c.Notifications.Provider {
	case ProviderKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("%w: kafka.brokers is empty", ErrInvalidConfig)
		}
	case ProviderNovu:
		if c.Novu.APIKey == "" {
			return fmt.Errorf("%w: NOVU_API_KEY is empty", ErrInvalidConfig)
		}
	case ProviderLog:
	default:
		return fmt.Errorf("%w: unknown notifications provider %q", ErrInvalidConfig, c.Notifications.Provider)
	}
	return nil
}

func (c *GatewayConfig) Validate() error {
	if !c.RateLimiter.Disabled && c.RateLimiter.RPS <= 0 {
		return fmt.Errorf("%w: rate_limiter.rps must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c *NotifierConfig) Validate() error {
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("%w: kafka.brokers is empty", ErrInvalidConfig)
	}
	if c.SMTP.Port <= 0 {
		return fmt.Errorf("%w: smtp.port must be positive", ErrInvalidConfig)
	}
	return nil
}

type validator interface {
	Validate() error
}

// Load reads path when it is set and the environment otherwise; env
// variables always win over the file.
func Load(path string, cfg validator) error {
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return cfg.Validate()
}

func MustLoadConfig() *Config {
	var cfg Config
	mustLoad(&cfg)
	return &cfg
}

func MustLoadGatewayConfig() *GatewayConfig {
	var cfg GatewayConfig
	mustLoad(&cfg)
	return &cfg
}

func MustLoadNotifierConfig() *NotifierConfig {
	var cfg NotifierConfig
	mustLoad(&cfg)
	return &cfg
}

func mustLoad(cfg validator) {
	// .env is optional
	_ = godotenv.Load()

	if err := Load(os.Getenv("CONFIG_PATH"), cfg); err != nil {
		panic(err)
	}
}
