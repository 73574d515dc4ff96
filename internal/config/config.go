package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/elankeeran/Companies-House-MCP-Server/internal/apperrors"
	"github.com/elankeeran/Companies-House-MCP-Server/internal/companieshouse"
)

// DefaultProbeSchedule is the cron schedule of the upstream reachability probe.
const DefaultProbeSchedule = "@every 10m"

// Config holds all configuration for the application
type Config struct {
	Server         ServerConfig
	CompaniesHouse CompaniesHouseConfig
	Probe          ProbeConfig
	Log            LogConfig
	CORS           CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// CompaniesHouseConfig holds the registry client configuration.
// APIKey is the default credential; it may be empty, in which case every
// call must carry its own key.
type CompaniesHouseConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// ProbeConfig holds the upstream probe schedule. An empty schedule disables it.
type ProbeConfig struct {
	Schedule string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// fileConfig is the optional YAML overlay named by CONFIG_FILE.
type fileConfig struct {
	Server struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"server"`

	CompaniesHouse struct {
		APIKey          string `yaml:"api_key"`
		APIKeyEncrypted string `yaml:"api_key_encrypted"`
		BaseURL         string `yaml:"base_url"`
		Timeout         string `yaml:"timeout"`
	} `yaml:"companies_house"`

	Probe struct {
		Schedule *string `yaml:"schedule"`
	} `yaml:"probe"`

	Log struct {
		Level  string `yaml:"level"`
		Pretty *bool  `yaml:"pretty"`
	} `yaml:"log"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

// Load reads configuration from defaults, the optional YAML file named by
// CONFIG_FILE, and environment variables (including a .env file), in
// increasing order of precedence.
//
// The default credential is COMPANIES_HOUSE_API_KEY. When that is empty and
// COMPANIES_HOUSE_API_KEY_ENCRYPTED is set, the token is decrypted with
// FERNET_KEY. The file's api_key and api_key_encrypted apply only when
// neither variable is set.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: "8001",
			Host: "0.0.0.0",
		},
		CompaniesHouse: CompaniesHouseConfig{
			BaseURL: companieshouse.DefaultBaseURL,
			Timeout: companieshouse.DefaultTimeout,
		},
		Probe: ProbeConfig{
			Schedule: DefaultProbeSchedule,
		},
		Log: LogConfig{
			Level: "info",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
	}

	encryptedKey := ""
	timeout := ""

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		file, err := readFile(path)
		if err != nil {
			return nil, err
		}
		encryptedKey = file.CompaniesHouse.APIKeyEncrypted
		timeout = file.CompaniesHouse.Timeout
		config.overlay(file)
	}

	config.Server.Port = getEnv("SERVER_PORT", config.Server.Port)
	config.Server.Host = getEnv("SERVER_HOST", config.Server.Host)
	config.CompaniesHouse.BaseURL = getEnv("COMPANIES_HOUSE_BASE_URL", config.CompaniesHouse.BaseURL)
	config.Log.Level = getEnv("LOG_LEVEL", config.Log.Level)

	// The credential is resolved per layer: either environment variable beats
	// both file keys, and within a layer the plain key beats the encrypted one.
	if key := os.Getenv("COMPANIES_HOUSE_API_KEY"); key != "" {
		config.CompaniesHouse.APIKey = key
	} else if encrypted := os.Getenv("COMPANIES_HOUSE_API_KEY_ENCRYPTED"); encrypted != "" {
		config.CompaniesHouse.APIKey = ""
		encryptedKey = encrypted
	}

	timeout = getEnv("COMPANIES_HOUSE_TIMEOUT", timeout)

	// An explicitly empty schedule disables the probe, so presence matters here.
	if schedule, ok := os.LookupEnv("UPSTREAM_PROBE_SCHEDULE"); ok {
		config.Probe.Schedule = schedule
	}

	if pretty := os.Getenv("LOG_PRETTY"); pretty != "" {
		v, err := strconv.ParseBool(pretty)
		if err != nil {
			return nil, fmt.Errorf("%w: LOG_PRETTY=%q: %w", apperrors.ErrInvalidConfig, pretty, err)
		}
		config.Log.Pretty = v
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		config.CORS.AllowedOrigins = splitList(origins)
	}

	if timeout != "" {
		d, err := parseTimeout(timeout)
		if err != nil {
			return nil, err
		}
		config.CompaniesHouse.Timeout = d
	}

	if config.CompaniesHouse.APIKey == "" && encryptedKey != "" {
		key, err := DecryptCredential(encryptedKey, os.Getenv("FERNET_KEY"))
		if err != nil {
			return nil, err
		}
		config.CompaniesHouse.APIKey = key
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// DecryptCredential decrypts a fernet token holding the registry API key.
// Tokens never expire.
func DecryptCredential(token, fernetKey string) (string, error) {
	if fernetKey == "" {
		return "", fmt.Errorf("%w: FERNET_KEY is not set", apperrors.ErrCredentialDecrypt)
	}

	keys, err := fernet.DecodeKeys(fernetKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrCredentialDecrypt, err)
	}

	msg := fernet.VerifyAndDecrypt([]byte(strings.TrimSpace(token)), 0, keys)
	if msg == nil {
		return "", fmt.Errorf("%w: token is invalid for the configured key", apperrors.ErrCredentialDecrypt)
	}
	return string(msg), nil
}

func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrInvalidConfig, path, err)
	}
	return &file, nil
}

// overlay copies every value set in the file over the defaults.
func (c *Config) overlay(file *fileConfig) {
	if file.Server.Host != "" {
		c.Server.Host = file.Server.Host
	}
	if file.Server.Port != "" {
		c.Server.Port = file.Server.Port
	}
	if file.CompaniesHouse.APIKey != "" {
		c.CompaniesHouse.APIKey = file.CompaniesHouse.APIKey
	}
	if file.CompaniesHouse.BaseURL != "" {
		c.CompaniesHouse.BaseURL = file.CompaniesHouse.BaseURL
	}
	if file.Probe.Schedule != nil {
		c.Probe.Schedule = *file.Probe.Schedule
	}
	if file.Log.Level != "" {
		c.Log.Level = file.Log.Level
	}
	if file.Log.Pretty != nil {
		c.Log.Pretty = *file.Log.Pretty
	}
	if len(file.CORS.AllowedOrigins) > 0 {
		c.CORS.AllowedOrigins = file.CORS.AllowedOrigins
	}
}

// parseTimeout accepts a Go duration ("15s") or a whole number of seconds.
func parseTimeout(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		secs, convErr := strconv.Atoi(value)
		if convErr != nil {
			return 0, fmt.Errorf("%w: COMPANIES_HOUSE_TIMEOUT=%q", apperrors.ErrInvalidConfig, value)
		}
		d = time.Duration(secs) * time.Second
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: COMPANIES_HOUSE_TIMEOUT must be positive", apperrors.ErrInvalidConfig)
	}
	return d, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
