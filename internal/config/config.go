package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

type DatabaseConfig struct {
	DSN string `yaml:"url"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
	FromName     string `yaml:"from_name"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	TTL    int    `yaml:"ttl"` // в минутах
}

type StorageConfig struct {
	Type      string `yaml:"type"`       // local, s3
	BasePath  string `yaml:"base_path"`  // For local storage
	BaseURL   string `yaml:"base_url"`   // Public URL base
	Bucket    string `yaml:"bucket"`     // For S3
	Region    string `yaml:"region"`     // For S3
	AccessKey string `yaml:"access_key"` // For S3
	SecretKey string `yaml:"secret_key"` // For S3
	Endpoint  string `yaml:"endpoint"`   // For custom S3
}

type UploadConfig struct {
	MaxSize      int64    `yaml:"max_size"`      // Max file size in bytes
	AllowedTypes []string `yaml:"allowed_types"` // Allowed MIME types
}

type VerificationConfig struct {
	CodeTTL int `yaml:"code_ttl"` // срок действия кода в минутах
}

type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Email        EmailConfig        `yaml:"email"`
	JWT          JWTConfig          `yaml:"jwt"`
	Storage      StorageConfig      `yaml:"storage"`
	Upload       UploadConfig       `yaml:"upload"`
	Verification VerificationConfig `yaml:"verification"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию: сначала .env, затем config.yaml,
// переменные окружения имеют приоритет (режим теста/деплоя)
func LoadConfig() {
	var cfg Config

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	// Конфигурация из переменных окружения
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60 * 24

	cfg.Email.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.Email.SMTPPort, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg.Email.SMTPUsername = os.Getenv("SMTP_USER")
	cfg.Email.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.Email.FromEmail = os.Getenv("SMTP_FROM")

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/files"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60 * 24 // 1 день
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./uploads"
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{
			"image/jpeg", "image/png", "image/gif", "image/webp",
		}
	}
	if cfg.Verification.CodeTTL == 0 {
		cfg.Verification.CodeTTL = 15
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
