package state

import (
	"context"

	"github.com/resohub/console/internal/session"
	"github.com/resohub/console/internal/state/record"
)

// SessionStateKey names the durable record for session state.
const SessionStateKey = "console.session"

// Default theme values applied before any user preference exists.
const (
	DefaultThemeColor = "zinc"
	DefaultThemeMode  = "light"
)

// SessionState is the primary client state domain: identity plus theme.
//
// AccessToken is deliberately excluded from persistence; a page reload
// re-authenticates rather than trusting a durable token copy.
type SessionState struct {
	Profile     *session.Profile `json:"profile,omitempty"`
	UserName    string           `json:"user_name,omitempty"`
	Color       string           `json:"color"`
	Mode        string           `json:"mode"`
	AccessToken string           `json:"-"`
}

// SessionStore wraps the generic store with per-field setters for the
// session state domain.
type SessionStore struct {
	*Store[SessionState]
}

// NewSessionStore builds the session store over the given record backend
// and begins hydration.
func NewSessionStore(ctx context.Context, records record.Store, opts Options) *SessionStore {
	defaults := SessionState{
		Color: DefaultThemeColor,
		Mode:  DefaultThemeMode,
	}
	return &SessionStore{Store: NewStore(ctx, records, SessionStateKey, defaults, opts)}
}

// SetProfile stores the normalized profile and mirrors its user name.
func (s *SessionStore) SetProfile(profile session.Profile) {
	s.Update(func(state *SessionState) {
		state.Profile = &profile
		state.UserName = profile.UserName
	})
}

// ClearProfile destroys identity state on logout. Theme preferences
// survive so the next login keeps the user's look.
func (s *SessionStore) ClearProfile() {
	s.Update(func(state *SessionState) {
		state.Profile = nil
		state.UserName = ""
		state.AccessToken = ""
	})
}

// SetUserName updates the display name field alone.
func (s *SessionStore) SetUserName(name string) {
	s.Update(func(state *SessionState) {
		state.UserName = name
	})
}

// SetColor updates the theme color field alone.
func (s *SessionStore) SetColor(color string) {
	s.Update(func(state *SessionState) {
		state.Color = color
	})
}

// SetMode updates the theme mode field alone.
func (s *SessionStore) SetMode(mode string) {
	s.Update(func(state *SessionState) {
		state.Mode = mode
	})
}

// SetAccessToken stores the current access token in memory only.
func (s *SessionStore) SetAccessToken(token string) {
	s.Update(func(state *SessionState) {
		state.AccessToken = token
	})
}
