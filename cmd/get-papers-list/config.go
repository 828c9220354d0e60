// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-fetcher/internal/secrets"
	"github.com/pdiddy/pubmed-fetcher/pkg/types"
)

const (
	configName  = "get-papers-list"
	envPrefix   = "PUBMED_FETCHER"
	defaultTool = "get-papers-list"
)

// newViper returns a viper instance with defaults, the config file search
// path, and PUBMED_FETCHER_* environment overrides. cfgFile, when set,
// replaces the search path.
func newViper(cfgFile string) *viper.Viper {
	v := viper.New()

	d := types.DefaultFetchConfig()
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("api_key", "")
	v.SetDefault("email", "")
	v.SetDefault("tool", defaultTool)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("user_agent", d.UserAgent)
	v.SetDefault("rate_limit", d.RateLimit)
	v.SetDefault("rate_burst", d.RateBurst)
	v.SetDefault("max_results", d.MaxResults)
	v.SetDefault("batch_size", d.BatchSize)
	v.SetDefault("batch_delay", d.BatchDelay)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// readConfigFile loads the config file if one exists. A missing file is
// only an error when it was named explicitly.
func readConfigFile(v *viper.Viper, explicit bool) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !explicit && errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("reading config: %w", err)
}

// loadFetchConfig decodes v into a FetchConfig, fills credentials from s
// when the config leaves them empty, and validates the result.
func loadFetchConfig(v *viper.Viper, s secrets.Secrets) (types.FetchConfig, error) {
	var cfg types.FetchConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.APIKey == "" {
		cfg.APIKey = s.APIKey()
	}
	if cfg.Email == "" {
		cfg.Email = s.Email()
	}

	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return val
}

func validateConfig(cfg types.FetchConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s fails %q", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s fails %q (%s)", fe.Field(), fe.Tag(), fe.Param())
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
