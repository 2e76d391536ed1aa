// Package statedump inspects the console's durable state records.
package statedump

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/resohub/console/internal/state"
	"github.com/resohub/console/internal/state/record"
	recordbbolt "github.com/resohub/console/internal/state/record/bbolt"
	recordsqlite "github.com/resohub/console/internal/state/record/sqlite"
)

// Config holds configuration for the state dump tool.
type Config struct {
	Backend string
	Path    string
	Key     string
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Backend: "bbolt"}
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "state backend (bbolt or sqlite)")
	fs.StringVar(&cfg.Path, "path", cfg.Path, "state data file path")
	fs.StringVar(&cfg.Key, "key", cfg.Key, "single record key (default: all known keys)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run dumps the requested records and writes them to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if cfg.Path == "" {
		return errors.New("path is required")
	}
	if out == nil {
		return errors.New("output is required")
	}

	var (
		records record.Store
		err     error
	)
	switch cfg.Backend {
	case "bbolt":
		records, err = recordbbolt.Open(cfg.Path)
	case "sqlite":
		records, err = recordsqlite.Open(cfg.Path)
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	defer records.Close()

	keys := []string{state.SessionStateKey, state.ThemeStateKey}
	if cfg.Key != "" {
		keys = []string{cfg.Key}
	}

	for _, key := range keys {
		if err := dumpRecord(ctx, records, key, out); err != nil {
			return err
		}
	}
	return nil
}

func dumpRecord(ctx context.Context, records record.Store, key string, out io.Writer) error {
	payload, err := records.Load(ctx, key)
	if errors.Is(err, record.ErrNotFound) {
		_, err := fmt.Fprintf(out, "%s: (not set)\n", key)
		return err
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, payload, "", "  "); err != nil {
		// Corrupt payloads still print raw so they can be diagnosed.
		_, werr := fmt.Fprintf(out, "%s: (corrupt) %s\n", key, payload)
		return werr
	}
	_, err = fmt.Fprintf(out, "%s: %s\n", key, pretty.Bytes())
	return err
}
