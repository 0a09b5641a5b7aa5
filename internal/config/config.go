package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type Config struct {
	Mode       string `mapstructure:"mode"`
	Port       int    `mapstructure:"port"`
	StaticPath string `mapstructure:"static_path"`
	LogLevel   string `mapstructure:"log_level"`

	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`

	MessagesPerSecond float64 `mapstructure:"messages_per_second"`
	MessageBurst      int     `mapstructure:"message_burst"`
	SlowConsumer      string  `mapstructure:"slow_consumer"`

	ICEServers     []ICEServer `mapstructure:"ice_servers"`
	AllowedOrigins []string    `mapstructure:"allowed_origins"`
}

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default). A missing
// file is not an error; defaults and environment variables still apply.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("static", cfg.StaticPath).
		Str("slow_consumer", cfg.SlowConsumer).
		Msg("config ready")
	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 3000)
	v.SetDefault("static_path", "./dist")
	v.SetDefault("log_level", "info")
	v.SetDefault("read_limit", 1<<20)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("messages_per_second", 50)
	v.SetDefault("message_burst", 100)
	v.SetDefault("slow_consumer", "drop")
	v.SetDefault("ice_servers", []map[string]any{})
	v.SetDefault("allowed_origins", []string{})
}

// Validate reports every nonsensical value at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	switch c.Mode {
	case "debug", "release", "test":
	default:
		bad("mode %q", c.Mode)
	}
	if c.Port < 1 || c.Port > 65535 {
		bad("port %d out of range", c.Port)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		bad("log_level %q", c.LogLevel)
	}
	if c.ReadLimit <= 0 {
		bad("read_limit must be positive")
	}
	if c.PingPeriod < 0 {
		bad("ping_period must not be negative")
	}
	if c.PingPeriod > 0 && c.PongWait <= c.PingPeriod {
		bad("pong_wait %s must exceed ping_period %s", c.PongWait, c.PingPeriod)
	}
	if c.WriteWait <= 0 {
		bad("write_wait must be positive")
	}
	if c.SendBuffer < 1 {
		bad("send_buffer must be at least 1")
	}
	if c.MessagesPerSecond < 0 {
		bad("messages_per_second must not be negative")
	}
	if c.MessagesPerSecond > 0 && c.MessageBurst < 1 {
		bad("message_burst must be at least 1")
	}
	switch c.SlowConsumer {
	case "drop", "kick":
	default:
		bad("slow_consumer %q", c.SlowConsumer)
	}
	for i, s := range c.ICEServers {
		if len(s.URLs) == 0 {
			bad("ice_servers[%d] has no urls", i)
		}
	}
	return errors.Join(errs...)
}
