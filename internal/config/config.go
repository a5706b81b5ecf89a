package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds relay and client configuration.
type Config struct {
	Relay  RelayConfig
	Client ClientConfig
	Log    LogConfig
}

// RelayConfig holds websocket relay settings.
type RelayConfig struct {
	Addr            string
	ReadBuffer      int           `mapstructure:"read_buffer"`
	WriteBuffer     int           `mapstructure:"write_buffer"`
	SendQueue       int           `mapstructure:"send_queue"`
	MaxMessageBytes int64         `mapstructure:"max_message_bytes"`
	CheckOrigin     bool          `mapstructure:"check_origin"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	PongWait        time.Duration `mapstructure:"pong_wait"`
	MDNS            bool          `mapstructure:"mdns"`
}

// ClientConfig holds headless client settings.
type ClientConfig struct {
	URL       string
	Room      string
	LineColor string  `mapstructure:"line_color"`
	LineWidth float64 `mapstructure:"line_width"`
	Width     int
	Height    int
	Discover  bool
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"addr":       "relay.addr",
	"mdns":       "relay.mdns",
	"url":        "client.url",
	"room":       "client.room",
	"color":      "client.line_color",
	"line-width": "client.line_width",
	"discover":   "client.discover",
	"log-level":  "log.level",
}

// Load reads configuration from defaults, an optional TOML file, env and
// flags, in increasing priority. Env var overrides use prefix DRAWBOARD_.
// Only the flags named in flagKeys that exist in flags are bound; flags may be
// nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("relay.addr", ":8080")
	v.SetDefault("relay.read_buffer", 1024)
	v.SetDefault("relay.write_buffer", 1024)
	v.SetDefault("relay.send_queue", 256)
	v.SetDefault("relay.max_message_bytes", 1<<20)
	v.SetDefault("relay.check_origin", false)
	v.SetDefault("relay.ping_interval", 30*time.Second)
	v.SetDefault("relay.pong_wait", 60*time.Second)
	v.SetDefault("relay.mdns", false)
	v.SetDefault("client.url", "ws://localhost:8080/ws")
	v.SetDefault("client.room", "")
	v.SetDefault("client.line_color", "#000")
	v.SetDefault("client.line_width", 5.0)
	v.SetDefault("client.width", 2000)
	v.SetDefault("client.height", 1000)
	v.SetDefault("client.discover", false)
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("DRAWBOARD_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "drawboard"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DRAWBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// SlogLevel maps Log.Level to a slog level, defaulting to info.
func (c LogConfig) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
