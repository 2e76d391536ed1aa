// Package config loads console settings from the environment and provides
// fatal-exit helpers for the command entry points.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv populates target from its env struct tags. Console settings use
// the RESOHUB_CONSOLE_* variable namespace.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
