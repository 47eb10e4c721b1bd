// Package config loads service settings from configs/config.yml, AQI_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"aqi_predictor/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "AQI"

type Config struct {
	Port      string
	LogLevel  string
	DBPath    string
	Predictor PredictorConfig
	Sessions  SessionsConfig
	MQTT      MQTTConfig
}

type PredictorConfig struct {
	// Endpoint is used when a request does not name one. Empty means demo mode.
	Endpoint string
	// AllowRequestEndpoint lets clients pass their own endpoint URL.
	AllowRequestEndpoint bool
	// Strict turns endpoint failures into errors instead of placeholder data.
	Strict     bool
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
}

type SessionsConfig struct {
	SigningKey    string
	TokenTTL      time.Duration
	IdleTTL       time.Duration
	SweepSchedule string
}

type MQTTConfig struct {
	Broker   string // empty disables publishing
	ClientID string
	Topic    string
	QoS      int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("db.path", "aqi.db")

	v.SetDefault("predictor.endpoint", "")
	v.SetDefault("predictor.allow_request_endpoint", true)
	v.SetDefault("predictor.strict", false)
	v.SetDefault("predictor.timeout", "10s")
	v.SetDefault("predictor.rate_per_sec", 5.0)
	v.SetDefault("predictor.burst", 5)

	v.SetDefault("sessions.token_ttl", "12h")
	v.SetDefault("sessions.idle_ttl", "30m")
	v.SetDefault("sessions.sweep_schedule", "@every 1m")

	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.client_id", "aqi-predictor")
	v.SetDefault("mqtt.topic", "aqi/readings")
	v.SetDefault("mqtt.qos", 0)
}

// NewViper returns a viper instance looking for config.yml in dir.
func NewViper(dir string) *viper.Viper {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	return v
}

// BindFlags makes command-line flags override file and env values.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if f := fs.Lookup("port"); f != nil {
		if err := v.BindPFlag("port", f); err != nil {
			return fmt.Errorf("bind --port: %w", err)
		}
	}
	if f := fs.Lookup("log-level"); f != nil {
		if err := v.BindPFlag("log.level", f); err != nil {
			return fmt.Errorf("bind --log-level: %w", err)
		}
	}
	return nil
}

// LoadDotEnv loads variables from path into the environment when the file
// exists. Variables already set are not overridden.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads the config file (optional), applies env overrides and validates.
func Load(v *viper.Viper) (Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:     strings.TrimSpace(v.GetString("port")),
		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
		DBPath:   strings.TrimSpace(v.GetString("db.path")),
		Predictor: PredictorConfig{
			Endpoint:             strings.TrimSpace(v.GetString("predictor.endpoint")),
			AllowRequestEndpoint: v.GetBool("predictor.allow_request_endpoint"),
			Strict:               v.GetBool("predictor.strict"),
			Timeout:              v.GetDuration("predictor.timeout"),
			RatePerSec:           v.GetFloat64("predictor.rate_per_sec"),
			Burst:                v.GetInt("predictor.burst"),
		},
		Sessions: SessionsConfig{
			SigningKey:    v.GetString("sessions.signing_key"),
			TokenTTL:      v.GetDuration("sessions.token_ttl"),
			IdleTTL:       v.GetDuration("sessions.idle_ttl"),
			SweepSchedule: strings.TrimSpace(v.GetString("sessions.sweep_schedule")),
		},
		MQTT: MQTTConfig{
			Broker:   strings.TrimSpace(v.GetString("mqtt.broker")),
			ClientID: v.GetString("mqtt.client_id"),
			Topic:    strings.TrimSpace(v.GetString("mqtt.topic")),
			QoS:      v.GetInt("mqtt.qos"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

const (
	minWriteTimeout    = 30 * time.Second
	writeTimeoutMargin = 5 * time.Second
)

// WriteTimeout is the HTTP response write deadline. It always leaves room for
// the slowest allowed prediction call to finish.
func (c Config) WriteTimeout() time.Duration {
	if d := c.Predictor.Timeout + writeTimeoutMargin; d > minWriteTimeout {
		return d
	}
	return minWriteTimeout
}

func (c Config) validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if !logger.IsValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid log.level %q (allowed: debug, info, warn, error)", c.LogLevel))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db.path is required"))
	}
	if c.Predictor.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("predictor.timeout must be positive, got %s", c.Predictor.Timeout))
	}
	if c.Predictor.RatePerSec <= 0 {
		errs = append(errs, fmt.Errorf("predictor.rate_per_sec must be positive, got %v", c.Predictor.RatePerSec))
	}
	if c.Predictor.Burst < 1 {
		errs = append(errs, fmt.Errorf("predictor.burst must be at least 1, got %d", c.Predictor.Burst))
	}
	if len(c.Sessions.SigningKey) < 16 {
		errs = append(errs, errors.New("sessions.signing_key must be at least 16 characters"))
	}
	if c.Sessions.TokenTTL <= 0 || c.Sessions.IdleTTL <= 0 {
		errs = append(errs, errors.New("sessions.token_ttl and sessions.idle_ttl must be positive"))
	}
	if c.Sessions.SweepSchedule == "" {
		errs = append(errs, errors.New("sessions.sweep_schedule is required"))
	}
	if c.MQTT.Broker != "" {
		if c.MQTT.Topic == "" {
			errs = append(errs, errors.New("mqtt.topic is required when mqtt.broker is set"))
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, fmt.Errorf("mqtt.qos must be 0, 1 or 2, got %d", c.MQTT.QoS))
		}
	}
	return errors.Join(errs...)
}
