package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Driver           string `mapstructure:"driver"`
	ConnectionString string `mapstructure:"connection_string"`
	SeedDemoData     bool   `mapstructure:"seed_demo_data"`
}

func (config DBConfig) validate() error {
	var errs []error

	if config.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("missing variable: db connection string"))
	}
	if config.Driver != "sqlite" && config.Driver != "postgres" {
		errs = append(errs, fmt.Errorf("unsupported driver: %q", config.Driver))
	}

	return errors.Join(errs...)
}

func (config DBConfig) bindEnvironmentVariables() error {
	return errors.Join(
		viper.BindEnv("db.driver", "DB_DRIVER"),
		viper.BindEnv("db.connection_string", "DB_CONNECTION_STRING"),
		viper.BindEnv("db.seed_demo_data", "DB_SEED_DEMO_DATA"),
	)
}
