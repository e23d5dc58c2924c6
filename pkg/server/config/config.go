/* Copyright 2025 Cornell Notes Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config defines the application configuration. The configuration is
// constructed once at process start and handed to the components that need
// it. There is no ambient global.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// DefaultDatabaseURL is the default database location
	DefaultDatabaseURL = "cornell.db"
	// DefaultTokenLifetimeMins is the default access token lifetime in minutes
	DefaultTokenLifetimeMins = 30
	// DefaultAITimeoutSecs is the default timeout for provider calls in seconds
	DefaultAITimeoutSecs = 120
)

var (
	// ErrDBMissingURL is an error for an incomplete configuration missing the database URL
	ErrDBMissingURL = errors.New("Database URL is empty")
	// ErrTokenSecretMissing is an error for an incomplete configuration missing the token signing secret
	ErrTokenSecretMissing = errors.New("Token secret is empty")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrTokenLifetimeInvalid is an error for a non-positive token lifetime
	ErrTokenLifetimeInvalid = errors.New("Invalid token lifetime")
)

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

func getOrEnvInt(value int, envKey string, defaultVal int) int {
	if value != 0 {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		if n, err := strconv.Atoi(env); err == nil {
			return n
		}
	}
	return defaultVal
}

// Config is an application configuration
type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	TokenSecret       string
	TokenLifetimeMins int
	InviteCode        string
	AIBaseURL         string
	AIAPIKey          string
	AIModel           string
	AITimeoutSecs     int
	LogLevel          string
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	TokenSecret       string
	TokenLifetimeMins int
	InviteCode        string
	AIBaseURL         string
	AIAPIKey          string
	AIModel           string
	AITimeoutSecs     int
	LogLevel          string
	ConfigFile        string
}

// fileValues is the shape of an optional YAML configuration file
type fileValues struct {
	AppEnv            string `yaml:"app_env"`
	Port              string `yaml:"port"`
	DatabaseURL       string `yaml:"database_url"`
	TokenSecret       string `yaml:"token_secret"`
	TokenLifetimeMins int    `yaml:"token_lifetime_minutes"`
	InviteCode        string `yaml:"invite_code"`
	AIBaseURL         string `yaml:"ai_base_url"`
	AIAPIKey          string `yaml:"ai_api_key"`
	AIModel           string `yaml:"ai_model"`
	AITimeoutSecs     int    `yaml:"ai_timeout_seconds"`
	LogLevel          string `yaml:"log_level"`
}

func readFile(path string) (fileValues, error) {
	var ret fileValues

	data, err := os.ReadFile(path)
	if err != nil {
		return ret, errors.Wrapf(err, "reading config file at %s", path)
	}
	if err := yaml.Unmarshal(data, &ret); err != nil {
		return ret, errors.Wrapf(err, "parsing config file at %s", path)
	}

	return ret, nil
}

// mergeFile fills any blank params from the config file values
func mergeFile(p Params, fv fileValues) Params {
	if p.AppEnv == "" {
		p.AppEnv = fv.AppEnv
	}
	if p.Port == "" {
		p.Port = fv.Port
	}
	if p.DatabaseURL == "" {
		p.DatabaseURL = fv.DatabaseURL
	}
	if p.TokenSecret == "" {
		p.TokenSecret = fv.TokenSecret
	}
	if p.TokenLifetimeMins == 0 {
		p.TokenLifetimeMins = fv.TokenLifetimeMins
	}
	if p.InviteCode == "" {
		p.InviteCode = fv.InviteCode
	}
	if p.AIBaseURL == "" {
		p.AIBaseURL = fv.AIBaseURL
	}
	if p.AIAPIKey == "" {
		p.AIAPIKey = fv.AIAPIKey
	}
	if p.AIModel == "" {
		p.AIModel = fv.AIModel
	}
	if p.AITimeoutSecs == 0 {
		p.AITimeoutSecs = fv.AITimeoutSecs
	}
	if p.LogLevel == "" {
		p.LogLevel = fv.LogLevel
	}

	return p
}

// New constructs and returns a new validated config.
// Empty params fall back to environment variables, then to the optional
// YAML config file, then to defaults. A .env file in the working directory
// is loaded into the environment first if present.
func New(p Params) (Config, error) {
	// Missing .env is not an error
	godotenv.Load()

	configFile := getOrEnv(p.ConfigFile, "CONFIG_FILE", "")
	if configFile != "" {
		fv, err := readFile(configFile)
		if err != nil {
			return Config{}, err
		}
		p = mergeFile(p, fv)
	}

	c := Config{
		AppEnv:            getOrEnv(p.AppEnv, "APP_ENV", AppEnvProduction),
		Port:              getOrEnv(p.Port, "PORT", "3001"),
		DatabaseURL:       getOrEnv(p.DatabaseURL, "DATABASE_URL", DefaultDatabaseURL),
		TokenSecret:       getOrEnv(p.TokenSecret, "TOKEN_SECRET", ""),
		TokenLifetimeMins: getOrEnvInt(p.TokenLifetimeMins, "TOKEN_LIFETIME_MINUTES", DefaultTokenLifetimeMins),
		InviteCode:        getOrEnv(p.InviteCode, "INVITE_CODE", ""),
		AIBaseURL:         getOrEnv(p.AIBaseURL, "AI_BASE_URL", ""),
		AIAPIKey:          getOrEnv(p.AIAPIKey, "AI_API_KEY", ""),
		AIModel:           getOrEnv(p.AIModel, "AI_MODEL", ""),
		AITimeoutSecs:     getOrEnvInt(p.AITimeoutSecs, "AI_TIMEOUT_SECONDS", DefaultAITimeoutSecs),
		LogLevel:          getOrEnv(p.LogLevel, "LOG_LEVEL", "info"),
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

func validate(c Config) error {
	if c.Port == "" {
		return ErrPortInvalid
	}
	if c.DatabaseURL == "" {
		return ErrDBMissingURL
	}
	if c.TokenSecret == "" {
		return ErrTokenSecretMissing
	}
	if c.TokenLifetimeMins <= 0 {
		return ErrTokenLifetimeInvalid
	}

	return nil
}
