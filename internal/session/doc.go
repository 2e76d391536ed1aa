// Package session translates upstream authentication payloads into the
// normalized profile data that seeds client state.
package session
