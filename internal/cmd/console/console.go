// Package console parses console command flags and launches the console runtime.
package console

import (
	"context"
	"flag"

	consoleapp "github.com/resohub/console/internal/console"
	entrypoint "github.com/resohub/console/internal/platform/cmd"
)

// Config holds console command configuration.
type Config struct {
	Port            int    `env:"RESOHUB_CONSOLE_PORT" envDefault:"8443"`
	UpstreamBaseURL string `env:"RESOHUB_CONSOLE_UPSTREAM_URL" envDefault:"http://localhost:8000"`
	RealtimeURL     string `env:"RESOHUB_CONSOLE_REALTIME_URL"`
	StateBackend    string `env:"RESOHUB_CONSOLE_STATE_BACKEND" envDefault:"bbolt"`
	StatePath       string `env:"RESOHUB_CONSOLE_STATE_PATH" envDefault:"data"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.IntVar(&cfg.Port, "port", cfg.Port, "The console HTTP server port")
	fs.StringVar(&cfg.UpstreamBaseURL, "upstream-url", cfg.UpstreamBaseURL, "The upstream API base URL")
	fs.StringVar(&cfg.RealtimeURL, "realtime-url", cfg.RealtimeURL, "The upstream realtime endpoint URL")
	fs.StringVar(&cfg.StateBackend, "state-backend", cfg.StateBackend, "The durable state backend (bbolt or sqlite)")
	fs.StringVar(&cfg.StatePath, "state-path", cfg.StatePath, "The durable state directory")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the console runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceConsole, func(ctx context.Context) error {
		return consoleapp.Run(ctx, consoleapp.RuntimeConfig{
			Port:            cfg.Port,
			UpstreamBaseURL: cfg.UpstreamBaseURL,
			RealtimeURL:     cfg.RealtimeURL,
			StateBackend:    cfg.StateBackend,
			StatePath:       cfg.StatePath,
		})
	})
}
