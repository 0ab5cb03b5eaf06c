package adapter

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Search  SearchConfig  `mapstructure:"search"`
	Browse  BrowseConfig  `mapstructure:"browse"`
	Browser BrowserConfig `mapstructure:"browser"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds the collector server configuration
type ServerConfig struct {
	URL string `mapstructure:"url"` // e.g. http://localhost:8000
}

// SearchConfig holds search request tuning
type SearchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"` // quiet period before a query is sent
	Timeout  time.Duration `mapstructure:"timeout"`  // per-request timeout
}

// BrowseConfig holds the routes used to open results
type BrowseConfig struct {
	DetailPath string `mapstructure:"detail_path"` // page path prefix, result id is appended
}

// BrowserConfig holds the command used to open result pages
type BrowserConfig struct {
	Command string   `mapstructure:"command"` // empty for system default
	Args    []string `mapstructure:"args"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Title     string `mapstructure:"title"`      // terminal window title
	CellWidth int    `mapstructure:"cell_width"` // grid cell width in columns
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"` // path, or "stderr" for console output
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "http://localhost:8000",
		},
		Search: SearchConfig{
			Debounce: time.Second,
			Timeout:  30 * time.Second,
		},
		Browse: BrowseConfig{
			DetailPath: "/manhwa",
		},
		Browser: BrowserConfig{
			Args: []string{},
		},
		UI: UIConfig{
			Title:     "Browse",
			CellWidth: 28,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "toonkor", "toonkor.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "toonkor", "toonkor.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "toonkor")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "toonkor")
	}
}

// LoadConfig loads configuration from file and environment.
// An empty path searches the default config directory and the working directory.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. TOONKOR_SERVER_URL
	v.SetEnvPrefix("TOONKOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so environment overrides apply without a file
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.url", cfg.Server.URL)
	v.SetDefault("search.debounce", cfg.Search.Debounce)
	v.SetDefault("search.timeout", cfg.Search.Timeout)
	v.SetDefault("browse.detail_path", cfg.Browse.DetailPath)
	v.SetDefault("browser.command", cfg.Browser.Command)
	v.SetDefault("browser.args", cfg.Browser.Args)
	v.SetDefault("ui.title", cfg.UI.Title)
	v.SetDefault("ui.cell_width", cfg.UI.CellWidth)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate checks the values the application cannot run without
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.URL) == "" {
		return fmt.Errorf("server URL is required")
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search debounce must not be negative: %s", c.Search.Debounce)
	}
	if c.Search.Timeout <= 0 {
		return fmt.Errorf("search timeout must be positive: %s", c.Search.Timeout)
	}
	return nil
}

// DetailURL returns the page URL for a result id. Each path segment of the
// id is escaped; segments that are already percent-encoded are kept as is.
func (c *Config) DetailURL(id string) string {
	var segments []string
	for _, part := range strings.Split(c.Browse.DetailPath+"/"+id, "/") {
		if part == "" {
			continue
		}
		if unescaped, err := url.PathUnescape(part); err == nil {
			part = unescaped
		}
		segments = append(segments, url.PathEscape(part))
	}
	return strings.TrimRight(c.Server.URL, "/") + "/" + strings.Join(segments, "/")
}
