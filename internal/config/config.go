// Package config handles configuration loading from YAML files, .env files and
// environment variables.
// Configuration precedence: environment variables > .env file > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/checklogs/agent/internal/models"
)

// Environment variable names understood by the agent.
const (
	EnvAPIKey       = "CHECKLOGS_API_KEY"
	EnvAPIHost      = "CHECKLOGS_API_HOST"
	EnvAPIPort      = "CHECKLOGS_API_PORT"
	EnvServerName   = "SERVER_NAME"
	EnvInterval     = "COLLECT_INTERVAL"
	EnvCollectCPU   = "COLLECT_CPU"
	EnvCollectRAM   = "COLLECT_RAM"
	EnvCollectDisk  = "COLLECT_DISK"
	EnvCollectLoad  = "COLLECT_LOAD"
	EnvCollectProcs = "COLLECT_PROCESSES"
	EnvTopProcesses = "TOP_PROCESSES_COUNT"
	EnvLogLevel     = "LOG_LEVEL"
	EnvLogFile      = "LOG_FILE"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "15s" or "1m", or a bare number of seconds.
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
	if secs, err := strconv.Atoi(value.Value); err == nil {
		d.Duration = time.Duration(secs) * time.Second
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds all agent configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Identity   IdentityConfig   `yaml:"identity"`
	Collection CollectionConfig `yaml:"collection"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds the remote collector endpoint and shared secret.
type ServerConfig struct {
	Host   string `yaml:"host" validate:"required"`
	Port   int    `yaml:"port" validate:"min=1,max=65535"`
	APIKey string `yaml:"api_key" validate:"required"`
}

// IdentityConfig holds the label this host reports under.
type IdentityConfig struct {
	ServerName string `yaml:"server_name" validate:"required"`
}

// CollectionConfig holds metric collection settings. Uptime is always
// collected and has no flag.
type CollectionConfig struct {
	Interval     Duration `yaml:"interval"`
	TopProcesses int      `yaml:"top_processes" validate:"min=1"`
	CPU          bool     `yaml:"cpu"`
	RAM          bool     `yaml:"ram"`
	Disk         bool     `yaml:"disk"`
	Load         bool     `yaml:"load"`
	Processes    bool     `yaml:"processes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=DEBUG INFO WARN WARNING ERROR CRITICAL"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "api.checklogs.dev",
			Port: 9876,
		},
		Identity: IdentityConfig{
			ServerName: defaultServerName(),
		},
		Collection: CollectionConfig{
			Interval:     Duration{10 * time.Second},
			TopProcesses: 10,
			CPU:          true,
			RAM:          true,
			Disk:         true,
			Load:         true,
			Processes:    true,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

func defaultServerName() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "localhost"
	}
	return name
}

// Addr returns the collector address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AgentIdentity returns the identity stamped on every snapshot.
func (c *Config) AgentIdentity() models.Identity {
	return models.Identity{
		APIKey:     c.Server.APIKey,
		ServerName: c.Identity.ServerName,
	}
}

// LoadFromBytes parses YAML configuration from a byte slice and merges with defaults.
// Environment variables take highest precedence and override values from the byte slice.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config data: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.Logging.Level = strings.ToUpper(strings.TrimSpace(cfg.Logging.Level))

	return cfg, nil
}

// Load reads configuration with the full precedence chain. If path is empty
// the standard locations are searched; a missing file is not an error.
// The listed .env files are loaded into the process environment first
// without overriding variables that are already set. With no files given, a
// .env file in the working directory is used when present.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	if path == "" {
		path = Locate()
	}
	if path == "" {
		return LoadFromBytes(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		return LoadFromBytes(nil)
	}

	return LoadFromBytes(data)
}

// Locate searches standard config file paths and returns the first one found.
// Returns empty string if no config file exists.
func Locate() string {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables have the highest precedence.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv(EnvAPIHost); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv(EnvServerName); v != "" {
		cfg.Identity.ServerName = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Logging.File = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvAPIPort, &cfg.Server.Port},
		{EnvTopProcesses, &cfg.Collection.TopProcesses},
	}
	for _, i := range ints {
		if err := envInt(i.key, i.dst); err != nil {
			return err
		}
	}

	var secs int
	if v := os.Getenv(EnvInterval); v != "" {
		if err := envInt(EnvInterval, &secs); err != nil {
			return err
		}
		cfg.Collection.Interval = Duration{time.Duration(secs) * time.Second}
	}

	envBool(EnvCollectCPU, &cfg.Collection.CPU)
	envBool(EnvCollectRAM, &cfg.Collection.RAM)
	envBool(EnvCollectDisk, &cfg.Collection.Disk)
	envBool(EnvCollectLoad, &cfg.Collection.Load)
	envBool(EnvCollectProcs, &cfg.Collection.Processes)

	return nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s must be an integer (got %q)", key, v)
	}
	*dst = n
	return nil
}

// envBool enables a flag only for the literal "true" (any case). Any other
// value, including an empty one, disables it. An unset variable leaves dst
// unchanged.
func envBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = strings.EqualFold(strings.TrimSpace(v), "true")
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// envNames maps validated fields to the variable that sets them, for error messages.
var envNames = map[string]string{
	"server.host":              EnvAPIHost,
	"server.port":              EnvAPIPort,
	"server.api_key":           EnvAPIKey,
	"identity.server_name":     EnvServerName,
	"collection.top_processes": EnvTopProcesses,
	"logging.level":            EnvLogLevel,
}

// Validate checks that the configuration is complete and within range.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	if c.Collection.Interval.Duration < time.Second {
		return fmt.Errorf("collection.interval must be at least 1s (set %s)", EnvInterval)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	var msg string
	switch fe.Tag() {
	case "required":
		msg = field + " is required"
	case "min":
		msg = fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		msg = fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		msg = fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		msg = fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
	if env, ok := envNames[field]; ok {
		msg += " (set " + env + ")"
	}
	return msg
}
