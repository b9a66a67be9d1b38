package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type authProvider string

const (
	ProviderLocal    authProvider = "local"
	ProviderSupabase authProvider = "supabase"
)

type AuthConfig struct {
	Provider                authProvider  `mapstructure:"provider"`
	JwtSecret               string        `mapstructure:"jwt_secret"`
	TokenTTL                time.Duration `mapstructure:"token_ttl"`
	SessionIdleTTL          time.Duration `mapstructure:"session_idle_ttl"`
	SupabaseURL             string        `mapstructure:"supabase_url"`
	SupabaseKey             string        `mapstructure:"supabase_key"`
	RemoteRequestsPerSecond float64       `mapstructure:"remote_requests_per_second"`
	RemediationSchedule     string        `mapstructure:"remediation_schedule"`
	RemediationMaxAttempts  int           `mapstructure:"remediation_max_attempts"`
}

func (config AuthConfig) validate() error {

	var missingFields []string

	if config.JwtSecret == "" {
		missingFields = append(missingFields, "jwt_secret")
	}

	if config.Provider == ProviderSupabase {
		if config.SupabaseURL == "" {
			missingFields = append(missingFields, "supabase_url")
		}
		if config.SupabaseKey == "" {
			missingFields = append(missingFields, "supabase_key")
		}
	}

	var errs []error
	if len(missingFields) > 0 {
		errs = append(errs, fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", ")))
	}
	if config.Provider != ProviderLocal && config.Provider != ProviderSupabase {
		errs = append(errs, fmt.Errorf("unknown provider: %q", config.Provider))
	}
	if config.TokenTTL <= 0 || config.SessionIdleTTL <= 0 {
		errs = append(errs, fmt.Errorf("token_ttl and session_idle_ttl must be positive"))
	}
	if config.RemediationMaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("remediation_max_attempts must be greater than zero"))
	}

	return errors.Join(errs...)
}

func (config AuthConfig) bindEnvironmentVariables() error {
	var errs []error
	bindings := map[string]string{
		"auth.provider":     "AUTH_PROVIDER",
		"auth.jwt_secret":   "JWT_SECRET",
		"auth.supabase_url": "SUPABASE_URL",
		"auth.supabase_key": "SUPABASE_KEY",
		"auth.token_ttl":    "TOKEN_TTL",
	}

	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
