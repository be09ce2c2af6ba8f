// Package config provides the structures and the loader for the service
// configuration.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the top-level configuration of the service.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Ledger                  `yaml:"ledger"`
	Ares                    `yaml:"ares"`
	Rabbit                  `yaml:"rabbit"`
	SMTP                    `yaml:"smtp"`
}

// HTTPServer holds the HTTP listener settings.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection holds the settings of the Redis connection used for carts
// and leaderboard pages.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken holds the JWT signing settings.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Ledger holds the connection settings of the external points ledger.
type Ledger struct {
	LedgerBaseURL string        `yaml:"ledger_base_url" env:"LEDGER_BASE_URL"`
	LedgerToken   string        `yaml:"ledger_token" env:"LEDGER_TOKEN"`
	LedgerTimeout time.Duration `yaml:"ledger_timeout" env-default:"10s"`
}

// Ares holds the settings of the ARES business-registry client.
type Ares struct {
	AresBaseURL string        `yaml:"ares_base_url" env-default:"https://ares.gov.cz/ekonomicke-subjekty-v-be/rest"`
	AresTimeout time.Duration `yaml:"ares_timeout" env-default:"10s"`
}

// Rabbit holds the RabbitMQ connection settings for submission events.
type Rabbit struct {
	RabbitURL     string        `yaml:"rabbit_url" env:"RABBIT_URL"`
	RabbitRetries int           `yaml:"rabbit_retries" env-default:"5"`
	RabbitDelay   time.Duration `yaml:"rabbit_delay" env-default:"2s"`
}

// SMTP holds the mail server settings of the notification worker.
type SMTP struct {
	SMTPHost string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"smtp_port" env-default:"587"`
	SMTPUser string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPass string `yaml:"smtp_pass" env:"SMTP_PASS"`
}

// MustLoad reads the configuration from the file named by CONFIG_PATH and
// terminates the process when it cannot be loaded.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
