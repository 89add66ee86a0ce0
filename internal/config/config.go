// Package config loads and validates service configuration from a
// config file and SPEAKERPACK_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Auth    AuthConfig    `mapstructure:"auth" validate:"required"`
	Render  RenderConfig  `mapstructure:"render" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
}

type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

type AuthConfig struct {
	// AdminToken is the bearer token callers must present. There is no
	// identity provider in this service; the platform in front of it
	// authenticates users and holds this token.
	AdminToken string `mapstructure:"admin_token" validate:"required,min=16"`
}

type RenderConfig struct {
	// BaseURL is the public app host encoded into each card's QR code.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	// Brand is the footer line on every card.
	Brand string `mapstructure:"brand" validate:"required"`
	// Concurrency bounds simultaneous card renders; 0 means one worker
	// per CPU.
	Concurrency int `mapstructure:"concurrency" validate:"gte=0"`
}

type StorageConfig struct {
	Bucket     string `mapstructure:"bucket" validate:"required"`
	Dir        string `mapstructure:"dir" validate:"required"`
	PublicBase string `mapstructure:"public_base" validate:"required,url"`
}

// Load reads config.yaml from the working directory (optional) and the
// environment, then validates the result.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SPEAKERPACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults double as the key registry viper needs for env-only runs.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.admin_token", "")
	v.SetDefault("render.base_url", "https://flutter-birmingham-hub.web.app")
	v.SetDefault("render.brand", "Flutter Birmingham Hub")
	v.SetDefault("render.concurrency", 0)
	v.SetDefault("storage.bucket", "speakerpack-dev")
	v.SetDefault("storage.dir", "storage")
	v.SetDefault("storage.public_base", "http://localhost:8080")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
