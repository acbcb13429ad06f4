// Package config loads CLI configuration from an optional formkit.yaml file
// and FORMKIT_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-formkit/pkg/token"
)

// EnvPrefix prefixes every environment variable, e.g. FORMKIT_SECRET or
// FORMKIT_TOKEN_VALID_TO.
const EnvPrefix = "FORMKIT"

// Keys understood by Load.
const (
	KeySecret     = "secret"
	KeyValidFrom  = "token.valid_from"
	KeyValidTo    = "token.valid_to"
	KeyNamePrefix = "render.name_prefix"
	KeyIDPrefix   = "render.id_prefix"
	KeyLogLevel   = "log.level"
	KeyForms      = "forms"
)

// ErrInvalidWindow is returned when token.valid_from exceeds token.valid_to.
var ErrInvalidWindow = errors.New("config: token.valid_from must not exceed token.valid_to")

// Config is the decoded CLI configuration.
type Config struct {
	Secret string       `mapstructure:"secret"`
	Token  TokenConfig  `mapstructure:"token"`
	Render RenderConfig `mapstructure:"render"`
	Log    LogConfig    `mapstructure:"log"`
	// Forms is a directory of form definition files.
	Forms string `mapstructure:"forms"`
}

// TokenConfig bounds the accepted token age.
type TokenConfig struct {
	ValidFrom time.Duration `mapstructure:"valid_from"`
	ValidTo   time.Duration `mapstructure:"valid_to"`
}

// RenderConfig holds the input name and id prefixes used when a form
// definition sets none.
type RenderConfig struct {
	NamePrefix string `mapstructure:"name_prefix"`
	IDPrefix   string `mapstructure:"id_prefix"`
}

// LogConfig selects the zap log level.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Window returns the token acceptance window.
func (c *Config) Window() token.Window {
	return token.Window{From: c.Token.ValidFrom, To: c.Token.ValidTo}
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("config: log.level: %w", err)
	}
	return level, nil
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySecret, "")
	v.SetDefault(KeyValidFrom, token.DefaultWindow.From)
	v.SetDefault(KeyValidTo, token.DefaultWindow.To)
	v.SetDefault(KeyNamePrefix, "form")
	v.SetDefault(KeyIDPrefix, "form")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyForms, "")
}

// New returns a viper instance with defaults and environment binding. When
// file is empty, formkit.yaml is searched for in the working directory.
func New(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("formkit")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file, if any, and decodes v. A missing
// default file is not an error; a missing explicit file is.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Token.ValidFrom < 0 || c.Token.ValidTo < 0 {
		return fmt.Errorf("config: token window must not be negative")
	}
	if c.Token.ValidFrom > c.Token.ValidTo {
		return ErrInvalidWindow
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// SecretBytes returns the secret, or an error when none is configured.
func (c *Config) SecretBytes() ([]byte, error) {
	if strings.TrimSpace(c.Secret) == "" {
		return nil, fmt.Errorf("config: no secret configured (set %s_SECRET)", EnvPrefix)
	}
	return []byte(c.Secret), nil
}
