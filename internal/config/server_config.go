package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	CorsOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (config ServerConfig) Address() string {
	return fmt.Sprintf(":%d", config.Port)
}

func (config ServerConfig) validate() error {
	var errs []error

	if config.Port <= 0 || config.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", config.Port))
	}
	if config.Mode != "debug" && config.Mode != "release" && config.Mode != "test" {
		errs = append(errs, fmt.Errorf("mode must be debug, release or test, got %q", config.Mode))
	}
	if config.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (config ServerConfig) bindEnvironmentVariables() error {
	return errors.Join(
		viper.BindEnv("server.port", "PORT"),
		viper.BindEnv("server.mode", "GIN_MODE"),
		viper.BindEnv("server.cors_origins", "CORS_ORIGINS"),
	)
}
