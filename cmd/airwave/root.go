package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/FranksOps/airwave/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	v      *viper.Viper
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	var cfgFile string

	root := &cobra.Command{
		Use:          "airwave",
		Short:        "Find live radio stations across radio-browser mirrors",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if cfgFile != "" {
				a.v.SetConfigFile(cfgFile)
			}
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			logger, err := cfg.NewLogger(os.Stderr)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			a.cfg, a.logger = cfg, logger
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.StringSlice("mirrors", nil, "mirror base URLs in priority order")
	pf.Bool("mirror-discovery", false, "discover mirrors from the directory at startup")
	pf.Duration("timeout", 0, "per-request timeout against a mirror")
	pf.Int("concurrency", 0, "attempts in flight per mirror (1 = sequential)")
	pf.Float64("requests-per-second", 0, "politeness limit across all mirrors (0 = unlimited)")
	pf.String("user-agent", "", "User-Agent sent to mirrors")
	pf.String("tls-profile", "", "TLS fingerprint: go, chrome, firefox or safari")
	pf.String("proxy", "", "proxy URL for mirror traffic")
	pf.String("profiles-file", "", "YAML file with extra or replacement profiles")

	for key, flag := range map[string]string{
		"log_level":           "log-level",
		"log_format":          "log-format",
		"mirrors":             "mirrors",
		"mirror_discovery":    "mirror-discovery",
		"timeout":             "timeout",
		"concurrency":         "concurrency",
		"requests_per_second": "requests-per-second",
		"user_agent":          "user-agent",
		"tls_profile":         "tls-profile",
		"proxy":               "proxy",
		"profiles_file":       "profiles-file",
	} {
		if err := a.v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind %s: %v", flag, err))
		}
	}

	root.AddCommand(
		newServeCmd(a),
		newSearchCmd(a),
		newProfilesCmd(a),
		newMirrorsCmd(a),
	)
	return root
}
