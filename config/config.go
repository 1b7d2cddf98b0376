package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	JWT   JWTConfig
	Plan  PlanConfig
	Reset PasswordResetConfig
}

type AppConfig struct {
	Port        string
	Env         string
	LogLevel    string
	AutoMigrate bool
	CORSOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// PlanConfig holds the limits that differ between free and premium caregivers.
type PlanConfig struct {
	FreeMaxScheduleDays int
}

// PasswordResetConfig shapes the link sent to a caregiver who forgot the password
type PasswordResetConfig struct {
	LinkURL string
	Expiry  time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("PLAN_FREE_MAX_SCHEDULE_DAYS", 1)
	viper.SetDefault("PASSWORD_RESET_URL", "http://localhost:8080/reset-password")

	// Deployments without a .env file rely on the environment only.
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	resetExpiry, err := time.ParseDuration(viper.GetString("PASSWORD_RESET_EXPIRY"))
	if err != nil || resetExpiry <= 0 {
		resetExpiry = 30 * time.Minute
	}

	freeMaxDays := viper.GetInt("PLAN_FREE_MAX_SCHEDULE_DAYS")
	if freeMaxDays < 1 {
		freeMaxDays = 1
	}

	config := &Config{
		App: AppConfig{
			Port:        viper.GetString("APP_PORT"),
			Env:         viper.GetString("APP_ENV"),
			LogLevel:    viper.GetString("LOG_LEVEL"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
			CORSOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			TimeZone: viper.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Plan: PlanConfig{
			FreeMaxScheduleDays: freeMaxDays,
		},
		Reset: PasswordResetConfig{
			LinkURL: viper.GetString("PASSWORD_RESET_URL"),
			Expiry:  resetExpiry,
		},
	}

	return config, nil
}

// splitList parses a comma separated env value, dropping blanks
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
