package console

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/resohub/console/internal/realtime"
	"github.com/resohub/console/internal/state"
	"github.com/resohub/console/internal/state/record"
	recordbbolt "github.com/resohub/console/internal/state/record/bbolt"
	recordsqlite "github.com/resohub/console/internal/state/record/sqlite"
)

// Supported durable state backends.
const (
	BackendBBolt  = "bbolt"
	BackendSQLite = "sqlite"
)

// RuntimeConfig holds console runtime settings.
type RuntimeConfig struct {
	Port            int
	UpstreamBaseURL string

	// RealtimeURL is the upstream realtime endpoint. Empty disables the
	// realtime surface entirely.
	RealtimeURL string

	// StateBackend selects the durable record store (bbolt or sqlite).
	// StatePath is the directory holding its data file.
	StateBackend string
	StatePath    string
}

// Run wires the console runtime and serves until the context is canceled.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	records, err := openRecords(cfg)
	if err != nil {
		return fmt.Errorf("open state backend: %w", err)
	}
	if records != nil {
		defer func() {
			if err := records.Close(); err != nil {
				log.Printf("close state backend: %v", err)
			}
		}()
	}

	observe := func(res state.SaveResult) {
		if res.Err != nil {
			log.Printf("persist %s: %v", res.Key, res.Err)
		}
	}
	sessions := state.NewSessionStore(ctx, records, state.Options{Observe: observe})
	themes := state.NewThemeStore(ctx, records, state.Options{Observe: observe})

	client := &http.Client{Timeout: 30 * time.Second}
	proxy, err := NewAuthProxy(cfg.UpstreamBaseURL, client, log.Printf)
	if err != nil {
		return err
	}

	opts := Options{
		Addr:     fmt.Sprintf(":%d", cfg.Port),
		Proxy:    proxy,
		Sessions: sessions,
		Themes:   themes,
	}
	if strings.TrimSpace(cfg.RealtimeURL) != "" {
		opts.Manager = realtime.NewManager(realtime.Options{Logf: log.Printf})
		opts.Endpoint = realtime.Endpoint{URL: cfg.RealtimeURL}
	}

	return NewServer(opts).Start(ctx)
}

// openRecords opens the configured durable record backend. An empty
// backend name runs the console memory-only.
func openRecords(cfg RuntimeConfig) (record.Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.StateBackend))
	if backend == "" {
		return nil, nil
	}
	dir := cfg.StatePath
	if dir == "" {
		dir = "."
	}
	switch backend {
	case BackendBBolt:
		return recordbbolt.Open(filepath.Join(dir, "console.db"))
	case BackendSQLite:
		return recordsqlite.Open(filepath.Join(dir, "console.sqlite"))
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}
}
