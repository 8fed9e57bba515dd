// Package config holds the settings of a premium tracking run.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables overriding the configuration, e.g. PREMIUM_PRICE.
const EnvPrefix = "PREMIUM"

// DefaultPath is the configuration file read when none is given and it exists.
const DefaultPath = "premium.yaml"

// Config represents the complete run configuration.
type Config struct {
	// Price is the ticker of the fund's units on the exchange.
	Price string `json:"price" yaml:"price" envconfig:"PRICE" validate:"required"`
	// Scheme is the mfapi.in code of the fund's scheme, for its NAV.
	Scheme string `json:"scheme" yaml:"scheme" envconfig:"SCHEME" validate:"required,numeric"`
	// Forex is the ticker of the exchange rate, in Currency per unit of Underlying.
	Forex string `json:"forex" yaml:"forex" envconfig:"FOREX" validate:"required"`

	Currency   string `json:"currency" yaml:"currency" envconfig:"CURRENCY" validate:"required,len=3,uppercase"`
	Underlying string `json:"underlying" yaml:"underlying" envconfig:"UNDERLYING" validate:"required,len=3,uppercase,nefield=Currency"`

	LookbackDays int           `json:"lookback_days" yaml:"lookback_days" envconfig:"LOOKBACK_DAYS" validate:"min=1,max=36500"`
	Output       string        `json:"output" yaml:"output" envconfig:"OUTPUT" validate:"required"`
	Timeout      time.Duration `json:"timeout" yaml:"timeout" envconfig:"TIMEOUT" validate:"min=1s"`
	LogLevel     string        `json:"log_level" yaml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	YahooURL string `json:"yahoo_url" yaml:"yahoo_url" envconfig:"YAHOO_URL" validate:"required,url"`
	MFAPIURL string `json:"mfapi_url" yaml:"mfapi_url" envconfig:"MFAPI_URL" validate:"required,url"`
}

// Default returns the configuration tracking the Motilal Oswal NASDAQ 100 ETF.
func Default() *Config {
	return &Config{
		Price:        "MON100.NS",
		Scheme:       "114984",
		Forex:        "USDINR=X",
		Currency:     "INR",
		Underlying:   "USD",
		LookbackDays: 730,
		Output:       "premium_data.json",
		Timeout:      30 * time.Second,
		LogLevel:     "info",
		YahooURL:     "https://query1.finance.yahoo.com",
		MFAPIURL:     "https://api.mfapi.in",
	}
}

// Load returns the default configuration, overridden by the file at path (if
// not empty, YAML or JSON) and then by the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, c); err != nil {
		if jerr := json.Unmarshal(data, c); jerr != nil {
			return fmt.Errorf("parse config %s (tried YAML and JSON): %w", path, err)
		}
	}
	return nil
}

// SaveToFile saves configuration to a file, YAML for .yaml and .yml, JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Use yaml tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	for _, code := range []string{c.Currency, c.Underlying} {
		if money.GetCurrency(code) == nil {
			return fmt.Errorf("unknown currency %q", code)
		}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s fails %q (got %v)", fe.Field(), fe.Tag()+"="+fe.Param(), fe.Value())
	}
}

// Level returns the slog level matching LogLevel.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Pair returns the forex pair label, e.g. "USD/INR".
func (c *Config) Pair() string { return c.Underlying + "/" + c.Currency }
