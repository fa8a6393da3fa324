package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/FranksOps/airwave/internal/fingerprint"
	"github.com/FranksOps/airwave/internal/mirror"
	"github.com/FranksOps/airwave/internal/radiobrowser"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. AIRWAVE_LISTEN.
const EnvPrefix = "AIRWAVE"

// Config is the runtime configuration shared by every command.
type Config struct {
	Listen string `mapstructure:"listen"`

	Mirrors           []string      `mapstructure:"mirrors"`
	MirrorDiscovery   bool          `mapstructure:"mirror_discovery"`
	DiscoveryURL      string        `mapstructure:"discovery_url"`
	MirrorMaxFailures int           `mapstructure:"mirror_max_failures"`
	MirrorCooldown    time.Duration `mapstructure:"mirror_cooldown"`

	Timeout           time.Duration `mapstructure:"timeout"`
	Concurrency       int           `mapstructure:"concurrency"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Jitter            float64       `mapstructure:"jitter"`

	UserAgent  string `mapstructure:"user_agent"`
	TLSProfile string `mapstructure:"tls_profile"`
	Proxy      string `mapstructure:"proxy"`

	ProfilesFile string `mapstructure:"profiles_file"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// SetDefaults registers every key with its default so environment
// variables bind even when no config file is present.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("listen", ":8080")
	v.SetDefault("mirrors", append([]string(nil), mirror.Defaults...))
	v.SetDefault("mirror_discovery", false)
	v.SetDefault("discovery_url", mirror.DiscoveryURL)
	v.SetDefault("mirror_max_failures", 0)
	v.SetDefault("mirror_cooldown", 5*time.Minute)
	v.SetDefault("timeout", radiobrowser.DefaultTimeout)
	v.SetDefault("concurrency", 1)
	v.SetDefault("requests_per_second", 0)
	v.SetDefault("jitter", 0)
	v.SetDefault("user_agent", "")
	v.SetDefault("tls_profile", string(fingerprint.ProfileGo))
	v.SetDefault("proxy", "")
	v.SetDefault("profiles_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration held by v, reading the config file first
// when one has been set.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.Mirrors = splitList(cfg.Mirrors)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	var errs []error

	if len(c.Mirrors) == 0 && !c.MirrorDiscovery {
		errs = append(errs, errors.New("at least one mirror is required unless mirror_discovery is set"))
	}
	for _, m := range c.Mirrors {
		if _, err := mirror.Normalize(m); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("requests_per_second must not be negative, got %g", c.RequestsPerSecond))
	}
	if c.Jitter < 0 || c.Jitter > 1 {
		errs = append(errs, fmt.Errorf("jitter must be within [0, 1], got %g", c.Jitter))
	}
	if c.MirrorMaxFailures < 0 {
		errs = append(errs, fmt.Errorf("mirror_max_failures must not be negative, got %d", c.MirrorMaxFailures))
	}
	if _, err := fingerprint.ParseProfile(c.TLSProfile); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.ProxyURL(); err != nil {
		errs = append(errs, err)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.LogFormat); f != "" && f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ProxyURL parses the configured proxy, returning nil when none is set.
func (c Config) ProxyURL() (*url.URL, error) {
	if strings.TrimSpace(c.Proxy) == "" {
		return nil, nil
	}
	u, err := url.Parse(strings.TrimSpace(c.Proxy))
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", c.Proxy, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("invalid proxy %q: unsupported scheme", c.Proxy)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid proxy %q: missing host", c.Proxy)
	}
	return u, nil
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", s)
	}
	return level, nil
}

// splitList flattens comma-separated entries and drops blanks.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
