package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL       = "http://localhost:8080"
	DefaultStatsInterval = 2 * time.Second
)

var ErrBaseURLRequired = errors.New("base URL is required")

// Config is the resolved runtime configuration. Sources in precedence
// order: command line flags, environment, .env file, YAML config file,
// built-in defaults.
type Config struct {
	Debug         bool
	BaseURL       string
	TokenPath     string
	StatsInterval time.Duration
}

// fileConfig is the YAML shape; durations are written as strings
// ("2s", "500ms").
type fileConfig struct {
	Debug         *bool  `yaml:"debug"`
	BaseURL       string `yaml:"base_url"`
	TokenPath     string `yaml:"token_path"`
	StatsInterval string `yaml:"stats_interval"`
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return ErrBaseURLRequired
	}
	if c.StatsInterval <= 0 {
		return fmt.Errorf("stats interval must be positive, got %s", c.StatsInterval)
	}
	return nil
}

// Load resolves the configuration from all sources. Messages produced
// before the logger exists are buffered and flushed once it does.
func Load(args []string) (Config, []string, *BufferedLog) {
	buffered := &BufferedLog{}

	cfg := Config{
		BaseURL:       DefaultBaseURL,
		StatsInterval: DefaultStatsInterval,
	}

	cfg = cfg.loadConfigFile(os.Getenv("POLLCLI_CONFIG"), buffered)
	cfg = cfg.loadEnv(buffered)
	cfg, rest := cfg.loadFlags(args)

	return cfg, rest, buffered
}

func (c Config) loadConfigFile(path string, buffered *BufferedLog) Config {
	if path == "" {
		return c
	}

	data, err := os.ReadFile(path)
	if err != nil {
		buffered.Warn("failed to read config file, skipping", zap.String("path", path), zap.Error(err))
		return c
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		buffered.Warn("failed to parse config file, skipping", zap.String("path", path), zap.Error(err))
		return c
	}

	if file.Debug != nil {
		c.Debug = *file.Debug
	}
	if file.BaseURL != "" {
		c.BaseURL = file.BaseURL
	}
	if file.TokenPath != "" {
		c.TokenPath = file.TokenPath
	}
	if file.StatsInterval != "" {
		d, err := time.ParseDuration(file.StatsInterval)
		if err != nil {
			buffered.Warn("invalid stats_interval in config file, keeping previous value",
				zap.String("value", file.StatsInterval))
		} else {
			c.StatsInterval = d
		}
	}

	buffered.Info("loaded config file", zap.String("path", path))
	return c
}

func (c Config) loadEnv(buffered *BufferedLog) Config {
	if err := godotenv.Load(); err == nil {
		buffered.Info("loaded .env file")
	}

	if v := os.Getenv("POLLCLI_DEBUG"); v == "true" || v == "1" {
		c.Debug = true
	}
	if v := os.Getenv("POLLCLI_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("POLLCLI_TOKEN_PATH"); v != "" {
		c.TokenPath = v
	}
	if v := os.Getenv("POLLCLI_STATS_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			buffered.Warn("invalid POLLCLI_STATS_INTERVAL, keeping previous value", zap.String("value", v))
		} else {
			c.StatsInterval = d
		}
	}

	return c
}

// loadFlags parses global flags and returns the remaining arguments
// (command name plus its own arguments).
func (c Config) loadFlags(args []string) (Config, []string) {
	fs := flag.NewFlagSet("pollcli", flag.ExitOnError)
	fs.BoolVar(&c.Debug, "debug", c.Debug, "enable debug logging")
	fs.StringVar(&c.BaseURL, "base-url", c.BaseURL, "backend base URL")
	fs.StringVar(&c.TokenPath, "token-path", c.TokenPath, "session token file path")
	fs.DurationVar(&c.StatsInterval, "stats-interval", c.StatsInterval, "live statistics refresh interval")
	// ExitOnError makes a parse failure terminate with usage output.
	_ = fs.Parse(args)

	return c, fs.Args()
}

type bufferedEntry struct {
	warn    bool
	message string
	fields  []zap.Field
}

// BufferedLog collects log entries emitted before the zap logger is
// constructed, then replays them.
type BufferedLog struct {
	entries []bufferedEntry
}

func (b *BufferedLog) Info(message string, fields ...zap.Field) {
	b.entries = append(b.entries, bufferedEntry{message: message, fields: fields})
}

func (b *BufferedLog) Warn(message string, fields ...zap.Field) {
	b.entries = append(b.entries, bufferedEntry{warn: true, message: message, fields: fields})
}

func (b *BufferedLog) FlushToZap(logger *zap.Logger) {
	for _, e := range b.entries {
		if e.warn {
			logger.Warn(e.message, e.fields...)
			continue
		}
		logger.Debug(e.message, e.fields...)
	}
	b.entries = nil
}
