// Package realtime manages the lifecycle of a single push-channel
// connection: readiness handshake, WebSocket dial, and guaranteed teardown.
package realtime

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	apperrors "github.com/resohub/console/internal/platform/errors"
)

// State describes the connection lifecycle position.
type State string

const (
	StateIdle         State = "idle"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateError        State = "error"
	StateDisconnected State = "disconnected"
)

// Lifecycle errors returned by Start.
var (
	// ErrAlreadyStarted indicates a Start while a connect is live or in
	// flight. At most one concurrent start per manager is supported.
	ErrAlreadyStarted = apperrors.New(apperrors.CodeRealtimeAlreadyStarted, "realtime connection already started")
	// ErrStopped indicates the manager was torn down; a stopped manager is
	// terminal and a new instance is required to reconnect.
	ErrStopped = apperrors.New(apperrors.CodeRealtimeStopped, "realtime manager is stopped")
)

// Endpoint configures the push channel location.
//
// URL is the channel path as an http(s) or ws(s) URL. The readiness probe
// always uses the http form and the channel dial the ws form of the same
// path.
type Endpoint struct {
	URL    string
	Header http.Header
}

// Doer abstracts the HTTP client used for the readiness probe.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Dialer abstracts the WebSocket dial used to open the push channel.
type Dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

// Options tunes manager construction.
type Options struct {
	// Probe issues the readiness request. Defaults to http.DefaultClient.
	Probe Doer
	// Dialer opens the push channel. Defaults to websocket.DefaultDialer.
	Dialer Dialer
	// OnStateChange observes lifecycle transitions.
	OnStateChange func(State)
	// Logf receives lifecycle log lines. Defaults to log.Printf.
	Logf func(string, ...any)
}

// Manager owns exactly one realtime connection's lifecycle.
//
// No timeouts are enforced internally: a hung handshake blocks until the
// caller's context expires. Callers needing retries must wrap the manager;
// it never reconnects on its own.
type Manager struct {
	probe   Doer
	dialer  Dialer
	onState func(State)
	logf    func(string, ...any)

	mu            sync.Mutex
	state         State
	conn          *websocket.Conn
	lastErr       string
	stopRequested bool
	inFlight      bool
}

// NewManager builds an idle manager.
func NewManager(opts Options) *Manager {
	probe := opts.Probe
	if probe == nil {
		probe = http.DefaultClient
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	logf := opts.Logf
	if logf == nil {
		logf = log.Printf
	}
	return &Manager{
		probe:   probe,
		dialer:  dialer,
		onState: opts.OnStateChange,
		logf:    logf,
		state:   StateIdle,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	if m == nil {
		return StateIdle
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the retained connection error message, or "" when none. It
// is cleared exactly when a connection transitions to connected.
func (m *Manager) Err() string {
	if m == nil {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Conn returns the live connection handle, or nil when not connected.
func (m *Manager) Conn() *websocket.Conn {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn
}

// Start performs the two-step handshake: a readiness probe against the
// channel path, then the WebSocket dial at the same path. It blocks until
// connected or failed; Stop from another goroutine cancels cooperatively
// and guarantees no channel is left open.
func (m *Manager) Start(ctx context.Context, endpoint Endpoint) error {
	if m == nil {
		return ErrStopped
	}
	if ctx == nil {
		ctx = context.Background()
	}

	m.mu.Lock()
	if m.stopRequested {
		m.mu.Unlock()
		return ErrStopped
	}
	if m.inFlight || m.conn != nil {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.inFlight = true
	m.mu.Unlock()
	m.setState(StateConnecting, "")

	probeURL, dialURL, err := endpointURLs(endpoint.URL)
	if err != nil {
		return m.fail(apperrors.Wrap(apperrors.CodeRealtimeProbeFailed, "invalid realtime endpoint", err))
	}

	if err := m.runProbe(ctx, probeURL, endpoint.Header); err != nil {
		return m.fail(err)
	}
	if m.stopRequestedNow() {
		m.clearInFlight()
		return ErrStopped
	}

	conn, resp, err := m.dialer.DialContext(ctx, dialURL, endpoint.Header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return m.fail(apperrors.Wrap(apperrors.CodeRealtimeDialFailed, fmt.Sprintf("open push channel %s", dialURL), err))
	}

	m.mu.Lock()
	if m.stopRequested {
		// Stop raced the dial; the channel opened after teardown was
		// requested and must be closed immediately.
		m.inFlight = false
		m.mu.Unlock()
		_ = conn.Close()
		return ErrStopped
	}
	m.conn = conn
	m.inFlight = false
	m.mu.Unlock()
	m.setState(StateConnected, "")
	m.logf("realtime connected to %s", dialURL)

	go m.readPump(conn)
	return nil
}

// Stop tears the connection down. It is idempotent: the underlying channel
// is closed exactly once and every call leaves the manager Disconnected.
func (m *Manager) Stop() {
	if m == nil {
		return
	}
	m.mu.Lock()
	alreadyStopped := m.stopRequested
	m.stopRequested = true
	conn := m.conn
	m.conn = nil
	m.mu.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			m.logf("close push channel: %v", err)
		}
	}
	if alreadyStopped {
		m.setStateOnly(StateDisconnected)
		return
	}
	m.setState(StateDisconnected, "")
}

// readPump drains the channel until it closes, keeping error state current.
// Messages are a consumer concern; nothing is cached here.
func (m *Manager) readPump(conn *websocket.Conn) {
	for {
		if _, _, err := conn.NextReader(); err != nil {
			m.mu.Lock()
			stopped := m.stopRequested
			if m.conn == conn {
				m.conn = nil
			}
			m.mu.Unlock()
			if !stopped {
				m.setState(StateError, fmt.Sprintf("push channel closed: %v", err))
				m.logf("realtime read: %v", err)
			}
			return
		}
	}
}

func (m *Manager) runProbe(ctx context.Context, probeURL string, header http.Header) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeRealtimeProbeFailed, "build readiness probe", err)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := m.probe.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeRealtimeProbeFailed, fmt.Sprintf("readiness probe %s", probeURL), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.New(apperrors.CodeRealtimeProbeFailed,
			fmt.Sprintf("readiness probe %s: unexpected status %d", probeURL, resp.StatusCode))
	}
	return nil
}

// fail records a handshake failure and surfaces it to the caller.
func (m *Manager) fail(err error) error {
	m.clearInFlight()
	if m.stopRequestedNow() {
		return ErrStopped
	}
	m.setState(StateError, err.Error())
	m.logf("realtime: %v", err)
	return err
}

func (m *Manager) clearInFlight() {
	m.mu.Lock()
	m.inFlight = false
	m.mu.Unlock()
}

func (m *Manager) stopRequestedNow() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopRequested
}

// setState records a transition plus error message and notifies observers.
func (m *Manager) setState(state State, errMsg string) {
	m.mu.Lock()
	m.state = state
	switch state {
	case StateConnected:
		m.lastErr = ""
	case StateError:
		m.lastErr = errMsg
	}
	observer := m.onState
	m.mu.Unlock()
	if observer != nil {
		observer(state)
	}
}

// setStateOnly records a state without touching the error message or
// notifying observers; used for repeated idempotent stops.
func (m *Manager) setStateOnly(state State) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
}

// endpointURLs derives the probe (http) and dial (ws) forms of the channel
// path.
func endpointURLs(raw string) (probeURL, dialURL string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", fmt.Errorf("endpoint url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse endpoint url: %w", err)
	}

	probe := *parsed
	dial := *parsed
	switch parsed.Scheme {
	case "http":
		dial.Scheme = "ws"
	case "https":
		dial.Scheme = "wss"
	case "ws":
		probe.Scheme = "http"
	case "wss":
		probe.Scheme = "https"
	default:
		return "", "", fmt.Errorf("unsupported endpoint scheme %q", parsed.Scheme)
	}
	return probe.String(), dial.String(), nil
}
