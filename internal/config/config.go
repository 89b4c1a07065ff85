package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Env           string
	Port          string
	FEURL         string
	PublicBaseURL string

	RootUserEmail    string
	RootUserPassword string
}

type DataBaseConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret string
}

type EmailConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	From         string
	AdminAddress string
}

type RedisConfig struct {
	URI string
}

type StorageConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
}

type Config struct {
	Server   ServerConfig
	Database DataBaseConfig
	Auth     AuthConfig
	Email    EmailConfig
	Redis    RedisConfig
	Storage  StorageConfig
	IsDev    bool
}

var requiredEnv = []string{
	// server
	"ENV",
	"PORT",
	"PUBLIC_BASE_URL",
	// database
	"DB_URL",
	// auth
	"JWT_SECRET",
	// email
	"EMAIL_PASSWORD",
	"ADMIN_EMAIL",
	// storage
	"S3_BUCKET",
	// cache
	"REDIS_URI",
}

func validateEnv() error {
	var missing []string
	for _, env := range requiredEnv {
		if os.Getenv(env) == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("environment variables not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load reads the environment (and .env when present) into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := validateEnv(); err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Env:              os.Getenv("ENV"),
			Port:             os.Getenv("PORT"),
			FEURL:            os.Getenv("FE_URL"),
			PublicBaseURL:    strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
			RootUserEmail:    os.Getenv("ROOT_USER_EMAIL"),
			RootUserPassword: os.Getenv("ROOT_USER_PASSWORD"),
		},
		Database: DataBaseConfig{
			URL: os.Getenv("DB_URL"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Email: EmailConfig{
			Host:         getenv("SMTP_HOST", "smtp.gmail.com"),
			Port:         getenvInt("SMTP_PORT", 587),
			Username:     getenv("SMTP_USERNAME", getenv("EMAIL_FROM", "")),
			Password:     os.Getenv("EMAIL_PASSWORD"),
			From:         getenv("EMAIL_FROM", "no-reply@adyc.org"),
			AdminAddress: os.Getenv("ADMIN_EMAIL"),
		},
		Redis: RedisConfig{
			URI: os.Getenv("REDIS_URI"),
		},
		Storage: StorageConfig{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			Region:    getenv("S3_REGION", "us-east-1"),
			Bucket:    os.Getenv("S3_BUCKET"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			PublicURL: strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/"),
		},

		IsDev: os.Getenv("ENV") == "development",
	}, nil
}

// New is Load for process start; a missing variable is fatal.
func New() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}
