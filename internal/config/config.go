package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DirName is the per-user configuration directory under $HOME
	DirName = ".gymctl"

	// FileName is the configuration file inside DirName
	FileName = "config.yaml"

	// LogFileName is the default log file inside DirName
	LogFileName = "gymctl.log"
)

// Invalidation policies applied after a successful status change
const (
	InvalidateRefetch = "refetch"
	InvalidatePatch   = "patch"
)

// Config represents the application configuration
type Config struct {
	// API server URL
	ServerURL string `koanf:"server_url" validate:"required,url"`

	// Per-request timeout for API calls
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// Client-side request pacing; 0 disables it
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
	RateBurst int     `koanf:"rate_burst" validate:"gte=1"`

	// Role of the records shown in the admin member views
	MemberRole string `koanf:"member_role"`

	// What happens to the local member list after a status change
	Invalidation string `koanf:"invalidation" validate:"oneof=refetch patch"`

	Log LogConfig `koanf:"log"`
	Gym GymConfig `koanf:"gym"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	File  string `koanf:"file"`
}

// GymConfig holds the branding printed on exported documents
type GymConfig struct {
	Name     string `koanf:"name"`
	Address  string `koanf:"address"`
	Phones   string `koanf:"phones"`
	Website  string `koanf:"website"`
	LogoPath string `koanf:"logo_path"`
}

var validate = validator.New()

func defaults() map[string]any {
	return map[string]any{
		"server_url":   "http://localhost:8080",
		"timeout":      "30s",
		"rate_limit":   10.0,
		"rate_burst":   5,
		"member_role":  "user",
		"invalidation": InvalidateRefetch,

		"log.level": "info",
		"log.file":  "",

		"gym.name":      "Robi Fitness Center",
		"gym.address":   "St.Gabriel, In front of Evening Star, D.L Building",
		"gym.phones":    "+251913212323 | +251943313282",
		"gym.website":   "www.robifitness.com",
		"gym.logo_path": "",
	}
}

var envKeyMap = map[string]string{
	"GYMCTL_SERVER_URL":   "server_url",
	"GYMCTL_TIMEOUT":      "timeout",
	"GYMCTL_RATE_LIMIT":   "rate_limit",
	"GYMCTL_RATE_BURST":   "rate_burst",
	"GYMCTL_MEMBER_ROLE":  "member_role",
	"GYMCTL_INVALIDATION": "invalidation",
	"GYMCTL_LOG_LEVEL":    "log.level",
	"GYMCTL_LOG_FILE":     "log.file",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

// Load loads the configuration from the given file path.
// A missing file is not an error: defaults and environment variables still apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider("GYMCTL_", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Save saves the configuration to the given file path
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Parser().Marshal(c.toMap())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

func (c *Config) toMap() map[string]any {
	return map[string]any{
		"server_url":   c.ServerURL,
		"timeout":      c.Timeout.String(),
		"rate_limit":   c.RateLimit,
		"rate_burst":   c.RateBurst,
		"member_role":  c.MemberRole,
		"invalidation": c.Invalidation,
		"log": map[string]any{
			"level": c.Log.Level,
			"file":  c.Log.File,
		},
		"gym": map[string]any{
			"name":      c.Gym.Name,
			"address":   c.Gym.Address,
			"phones":    c.Gym.Phones,
			"website":   c.Gym.Website,
			"logo_path": c.Gym.LogoPath,
		},
	}
}

func (c *Config) koanf() (*koanf.Koanf, error) {
	k := koanf.New(".")
	for key, value := range c.toMap() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
	}
	return k, nil
}

// Keys returns every configuration key in dotted form, sorted
func (c *Config) Keys() []string {
	k, err := c.koanf()
	if err != nil {
		return nil
	}
	return k.Keys()
}

// Get returns the value of a dotted key such as "gym.name"
func (c *Config) Get(key string) (string, error) {
	k, err := c.koanf()
	if err != nil {
		return "", err
	}
	if !slices.Contains(k.Keys(), key) {
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
	return k.String(key), nil
}

// Set updates a dotted key. The whole configuration is validated again and
// left untouched when the new value is rejected.
func (c *Config) Set(key, value string) error {
	k, err := c.koanf()
	if err != nil {
		return err
	}
	if !slices.Contains(k.Keys(), key) {
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	if err := k.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	var updated Config
	if err := k.Unmarshal("", &updated); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := validate.Struct(&updated); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	*c = updated
	return nil
}

// LogFile returns the configured log file, defaulting to one inside configDir
func (c *Config) LogFile(configDir string) string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(configDir, LogFileName)
}

// GetGlobalConfigDir returns the per-user configuration directory
func GetGlobalConfigDir() (string, error) {
	if dir := os.Getenv("GYMCTL_HOME"); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	return filepath.Join(homeDir, DirName), nil
}

// GetGlobalConfigPath returns the path of the per-user configuration file
func GetGlobalConfigPath() (string, error) {
	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// LoadGlobalConfig loads the per-user configuration file
func LoadGlobalConfig() (*Config, error) {
	path, err := GetGlobalConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// SaveGlobalConfig writes cfg to the per-user configuration file
func SaveGlobalConfig(cfg *Config) error {
	path, err := GetGlobalConfigPath()
	if err != nil {
		return err
	}
	return cfg.Save(path)
}
