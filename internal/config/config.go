package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// this is a pointer so that if someone attempts to use it before loading it will
// panic and force them to load it first.
// it is also private so that it cannot be modified after loading.
var _loaded *Config

// Config is the main configuration structure
type Config struct {
	Common Common `yaml:"common"`
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Load loads the configuration following proper precedence: defaults → config file → environment variables
func Load() {
	cfg := defaultConfig
	_loaded = &cfg

	configFile := os.Getenv("PAIRUP_CONFIG_FILE")
	if configFile == "" {
		configFile = "pairup.yaml"
	}

	if err := LoadFromFile(configFile); err != nil {
		log.Printf("Failed to load config file: %v, using defaults", err)
	} else {
		log.Printf("Successfully loaded config from file: %s", configFile)
	}

	ApplyEnvOverrides()
}

// LoadDefault installs the built-in defaults without reading files or the environment
func LoadDefault() {
	cfg := defaultConfig
	_loaded = &cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return err
	}

	_loaded = cfg
	return nil
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := defaultConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late at runtime
func (c *Config) Validate() error {
	switch c.Common.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Common.Database.Driver)
	}
	if c.Common.Pairing.ReminderStreak < 1 {
		return fmt.Errorf("pairing.reminder_streak must be at least 1, got %d", c.Common.Pairing.ReminderStreak)
	}
	if c.Common.Pairing.MaxRegenerateAttempts < 1 {
		return fmt.Errorf("pairing.max_regenerate_attempts must be at least 1, got %d", c.Common.Pairing.MaxRegenerateAttempts)
	}
	if c.Common.Http.Port <= 0 || c.Common.Http.Port > 65535 {
		return fmt.Errorf("http.port out of range: %d", c.Common.Http.Port)
	}
	return nil
}

// set sane defaults for all of the config options. when loading the config from
// the file, any options that are not set will be set to these defaults.
var defaultConfig = Config{
	Common: Common{
		Log: logConfig{
			Level:  "info",
			Format: "json",
		},
		Http: httpConfig{
			Host:           "0.0.0.0",
			Port:           3001,
			ReadTimeout:    10,
			WriteTimeout:   30,
			AllowedOrigins: []string{"*"},
		},
		Database: databaseConfig{
			Driver: DriverPostgres,
			Postgres: postgresConfig{
				User:               "postgres",
				Password:           "postgres",
				Host:               "localhost",
				Port:               5432,
				Database:           "pairup",
				MaxOpenConnections: 10,
			},
		},
		Pairing: pairingConfig{
			ReminderStreak:        5,
			MaxRegenerateAttempts: 100,
		},
	},
}

type Common struct {
	Log      logConfig      `yaml:"log"`
	Http     httpConfig     `yaml:"http"`
	Database databaseConfig `yaml:"database"`
	Pairing  pairingConfig  `yaml:"pairing"`
	Users    usersConfig    `yaml:"users"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type httpConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	ReadTimeout    int      `yaml:"read_timeout"`  // seconds
	WriteTimeout   int      `yaml:"write_timeout"` // seconds
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type databaseConfig struct {
	Driver   string         `yaml:"driver"` // "postgres" or "memory"
	Postgres postgresConfig `yaml:"postgres"`
}

type postgresConfig struct {
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	Database           string `yaml:"database"`
	MaxOpenConnections int    `yaml:"max_open_connections"`
}

func (c postgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

type pairingConfig struct {
	ReminderStreak        int `yaml:"reminder_streak"`
	MaxRegenerateAttempts int `yaml:"max_regenerate_attempts"`
}

// UserEntry is one participant as written in the config file
type UserEntry struct {
	Name       string `yaml:"name"`
	Identifier string `yaml:"identifier"`
	Active     bool   `yaml:"active"`
}

type usersConfig struct {
	List   []UserEntry `yaml:"list"`
	Base64 string      `yaml:"base64"` // base64 of URI-encoded JSON array
}

// there should be a getter for each top level field in the config struct.
// these getters will panic if the config has not been loaded.

func Logger() logConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Log
}

func Http() httpConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Http
}

func Database() databaseConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Database
}

func Pairing() pairingConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Pairing
}

func Users() usersConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Users
}

func Get() *Config {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded
}

func ApplyEnvOverrides() {
	if _loaded == nil {
		return
	}

	if level := os.Getenv("PAIRUP_LOG_LEVEL"); level != "" {
		_loaded.Common.Log.Level = level
	}
	if format := os.Getenv("PAIRUP_LOG_FORMAT"); format != "" {
		_loaded.Common.Log.Format = format
	}

	if httpHost := os.Getenv("PAIRUP_HTTP_HOST"); httpHost != "" {
		_loaded.Common.Http.Host = httpHost
	}
	// PORT takes the same meaning it has on most PaaS hosts
	for _, key := range []string{"PORT", "PAIRUP_HTTP_PORT"} {
		if httpPort := os.Getenv(key); httpPort != "" {
			if port, err := strconv.Atoi(httpPort); err == nil {
				_loaded.Common.Http.Port = port
			}
		}
	}
	if origins := os.Getenv("PAIRUP_HTTP_ALLOWED_ORIGINS"); origins != "" {
		_loaded.Common.Http.AllowedOrigins = splitList(origins)
	}

	if driver := os.Getenv("PAIRUP_DB_DRIVER"); driver != "" {
		_loaded.Common.Database.Driver = driver
	}
	if dbHost := os.Getenv("PAIRUP_DB_HOST"); dbHost != "" {
		_loaded.Common.Database.Postgres.Host = dbHost
	}
	if dbPort := os.Getenv("PAIRUP_DB_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			_loaded.Common.Database.Postgres.Port = port
		}
	}
	if dbUser := os.Getenv("PAIRUP_DB_USER"); dbUser != "" {
		_loaded.Common.Database.Postgres.User = dbUser
	}
	if dbPassword := os.Getenv("PAIRUP_DB_PASSWORD"); dbPassword != "" {
		_loaded.Common.Database.Postgres.Password = dbPassword
	}
	if dbName := os.Getenv("PAIRUP_DB_NAME"); dbName != "" {
		_loaded.Common.Database.Postgres.Database = dbName
	}

	if streak := os.Getenv("PAIRUP_REMINDER_STREAK"); streak != "" {
		if n, err := strconv.Atoi(streak); err == nil && n > 0 {
			_loaded.Common.Pairing.ReminderStreak = n
		}
	}
	if attempts := os.Getenv("PAIRUP_MAX_REGENERATE_ATTEMPTS"); attempts != "" {
		if n, err := strconv.Atoi(attempts); err == nil && n > 0 {
			_loaded.Common.Pairing.MaxRegenerateAttempts = n
		}
	}

	if encoded := os.Getenv("PAIRUP_USERS_B64"); encoded != "" {
		_loaded.Common.Users.Base64 = encoded
	} else if encoded := os.Getenv("PAIRUP_USERS"); encoded != "" {
		_loaded.Common.Users.Base64 = encoded
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
