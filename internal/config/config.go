package config

import (
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string `yaml:"env" env:"ENV" env-default:"local"`
	APIKey        string `yaml:"api_key" env:"API_KEY" validate:"required"`
	MaxUploadSize int64  `yaml:"max_upload_size" env:"MAX_UPLOAD_SIZE" env-default:"3145728"`
	HTTPServer    `yaml:"http_server"`
	Database      `yaml:"database"`
	Storage       `yaml:"storage"`
	Kafka         `yaml:"kafka"`
	Telegram      `yaml:"telegram"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"0.0.0.0:8082"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Database configures the metadata store. An empty Host disables persistence:
// uploads still succeed, /images reports the store as unavailable.
type Database struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"DB_NAME" env-default:"camgateway"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

type Storage struct {
	Endpoint   string `yaml:"endpoint" env:"STORAGE_ENDPOINT" validate:"required"`
	AccessKey  string `yaml:"access_key" env:"STORAGE_ACCESS_KEY" validate:"required"`
	SecretKey  string `yaml:"secret_key" env:"STORAGE_SECRET_KEY" validate:"required"`
	Bucket     string `yaml:"bucket" env:"STORAGE_BUCKET" env-default:"esp32-images"`
	PublicBase string `yaml:"public_base" env:"STORAGE_PUBLIC_BASE" validate:"required"`
	Folder     string `yaml:"folder" env:"STORAGE_FOLDER" env-default:"esp32"`
	UseSSL     bool   `yaml:"use_ssl" env:"STORAGE_USE_SSL" env-default:"false"`
}

// Kafka configures the upload event producer. Empty Brokers disables it.
type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"image-uploads"`
}

// Telegram configures the notification bot. Both fields must be set for
// notifications to be sent.
type Telegram struct {
	Token  string `yaml:"token" env:"TELEGRAM_TOKEN"`
	ChatID int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
}

func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Fatalf("config file does not exist: %s", configPath)
		}

		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		log.Fatalf("invalid config: %s", err)
	}

	return &cfg
}
