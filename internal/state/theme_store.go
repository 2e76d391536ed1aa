package state

import (
	"context"

	"github.com/resohub/console/internal/state/record"
)

// ThemeStateKey names the durable record for the standalone theme store.
// It predates the session record carrying theme fields and remains an
// independent state domain for consumers that only care about appearance.
const ThemeStateKey = "console.theme"

// ThemePreference is the standalone theme state domain.
type ThemePreference struct {
	Color string `json:"color"`
	Mode  string `json:"mode"`
}

// ThemeStore wraps the generic store with per-field setters for theme
// preferences.
type ThemeStore struct {
	*Store[ThemePreference]
}

// NewThemeStore builds the theme store over the given record backend and
// begins hydration.
func NewThemeStore(ctx context.Context, records record.Store, opts Options) *ThemeStore {
	defaults := ThemePreference{
		Color: DefaultThemeColor,
		Mode:  DefaultThemeMode,
	}
	return &ThemeStore{Store: NewStore(ctx, records, ThemeStateKey, defaults, opts)}
}

// SetColor updates the color field alone.
func (s *ThemeStore) SetColor(color string) {
	s.Update(func(pref *ThemePreference) {
		pref.Color = color
	})
}

// SetMode updates the mode field alone.
func (s *ThemeStore) SetMode(mode string) {
	s.Update(func(pref *ThemePreference) {
		pref.Mode = mode
	})
}
