package console

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8443 {
		t.Fatalf("port = %d, want 8443", cfg.Port)
	}
	if cfg.UpstreamBaseURL != "http://localhost:8000" {
		t.Fatalf("upstream_url = %q, want %q", cfg.UpstreamBaseURL, "http://localhost:8000")
	}
	if cfg.RealtimeURL != "" {
		t.Fatalf("realtime_url = %q, want empty", cfg.RealtimeURL)
	}
	if cfg.StateBackend != "bbolt" {
		t.Fatalf("state_backend = %q, want bbolt", cfg.StateBackend)
	}
	if cfg.StatePath != "data" {
		t.Fatalf("state_path = %q, want data", cfg.StatePath)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("RESOHUB_CONSOLE_PORT", "9000")
	t.Setenv("RESOHUB_CONSOLE_UPSTREAM_URL", "http://api.internal:8000")

	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-port", "9001",
		"-realtime-url", "http://api.internal:8000/ws",
		"-state-backend", "sqlite",
		"-state-path", "/var/lib/console",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("port = %d, want 9001 (flag beats env)", cfg.Port)
	}
	if cfg.UpstreamBaseURL != "http://api.internal:8000" {
		t.Fatalf("upstream_url = %q, want env override", cfg.UpstreamBaseURL)
	}
	if cfg.RealtimeURL != "http://api.internal:8000/ws" {
		t.Fatalf("realtime_url = %q", cfg.RealtimeURL)
	}
	if cfg.StateBackend != "sqlite" {
		t.Fatalf("state_backend = %q, want sqlite", cfg.StateBackend)
	}
	if cfg.StatePath != "/var/lib/console" {
		t.Fatalf("state_path = %q", cfg.StatePath)
	}
}
