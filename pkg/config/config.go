// Package config resolves the API host, feature toggles and the access
// token. The token comes from the STARLING_TOKEN environment variable,
// the config file, or a token_file path, in that order; everything else
// has defaults overridable by file, env (STARLING_ prefix) and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/emacsmirror/starling/pkg/starling"
)

// ErrNoToken means no access token could be resolved from any source.
// This is a configuration problem, not a transport one: nothing has
// touched the network yet when it is returned.
var ErrNoToken = errors.New("no access token configured: set STARLING_TOKEN, or token / token_file in the config file")

// Config holds everything the CLI needs to build a client.
type Config struct {
	BaseURL         string `mapstructure:"base_url"`
	Token           string `mapstructure:"token"`
	TokenFile       string `mapstructure:"token_file"`
	AccountBalances bool   `mapstructure:"account_balances"`
}

// Build loads configuration from the given file (default
// ~/.config/starling/config.yaml), environment and flag overrides.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("base_url", starling.DefaultBaseURL)
	v.SetDefault("token", "")
	v.SetDefault("token_file", "")
	v.SetDefault("account_balances", true)

	v.SetConfigType("yaml")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "starling"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STARLING")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		if f := flags.Lookup("base-url"); f != nil {
			_ = v.BindPFlag("base_url", f)
		}
		if f := flags.Lookup("account-balances"); f != nil {
			_ = v.BindPFlag("account_balances", f)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// ResolveToken returns the access token, reading token_file if needed.
func (c *Config) ResolveToken() (string, error) {
	if c.Token != "" {
		return c.Token, nil
	}
	if c.TokenFile != "" {
		data, err := os.ReadFile(c.TokenFile)
		if err != nil {
			return "", fmt.Errorf("read token file: %w", err)
		}
		if token := strings.TrimSpace(string(data)); token != "" {
			return token, nil
		}
	}
	return "", ErrNoToken
}
