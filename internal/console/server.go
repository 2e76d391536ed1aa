package console

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/resohub/console/internal/platform/errors"
	"github.com/resohub/console/internal/platform/id"
	"github.com/resohub/console/internal/platform/requestctx"
	"github.com/resohub/console/internal/realtime"
	"github.com/resohub/console/internal/session"
	"github.com/resohub/console/internal/state"
	"github.com/resohub/console/internal/theme"
)

// Server is the console HTTP edge. It proxies authentication to the
// upstream API, mirrors session and theme state into durable stores, and
// optionally holds the upstream realtime connection.
type Server struct {
	proxy    *AuthProxy
	sessions *state.SessionStore
	themes   *state.ThemeStore
	manager  *realtime.Manager
	endpoint realtime.Endpoint
	tracer   trace.Tracer

	displayMu sync.Mutex
	display   *theme.Applier

	http *http.Server
}

// Options configures a console server.
type Options struct {
	Addr     string
	Proxy    *AuthProxy
	Sessions *state.SessionStore
	Themes   *state.ThemeStore

	// Display receives the rendered theme classes. Defaults to an applier
	// over a fresh document.
	Display *theme.Applier

	// Manager and Endpoint are optional; when both are set the server
	// exposes realtime start/stop/status endpoints.
	Manager  *realtime.Manager
	Endpoint realtime.Endpoint
}

// NewServer wires the console routes.
func NewServer(opts Options) *Server {
	display := opts.Display
	if display == nil {
		display = theme.NewApplier(theme.NewDocument())
	}

	s := &Server{
		proxy:    opts.Proxy,
		sessions: opts.Sessions,
		themes:   opts.Themes,
		display:  display,
		manager:  opts.Manager,
		endpoint: opts.Endpoint,
		tracer:   otel.Tracer("console/server"),
	}

	// Render the persisted preference once rehydration lands; every later
	// change re-applies synchronously on its own path.
	go func() {
		<-s.themes.Hydrated()
		s.applyTheme()
	}()

	r := mux.NewRouter()
	r.Use(requestIDMiddleware)
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/api/auth/verify", s.handleVerify).Methods("GET")
	r.HandleFunc("/api/auth/logout", s.handleLogout).Methods("POST")
	r.HandleFunc("/api/profile/theme", s.handleThemeUpdate).Methods("PUT")
	if s.manager != nil {
		r.HandleFunc("/api/realtime/start", s.handleRealtimeStart).Methods("POST")
		r.HandleFunc("/api/realtime/stop", s.handleRealtimeStop).Methods("POST")
		r.HandleFunc("/api/realtime/status", s.handleRealtimeStatus).Methods("GET")
	}

	s.http = &http.Server{
		Addr:         opts.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start serves HTTP until the context is canceled, then drains with a
// bounded shutdown window.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("console listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if s.manager != nil {
		s.manager.Stop()
	}
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "console.login")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeRequestInvalidBody, "decode login body", err))
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, apperrors.New(apperrors.CodeRequestInvalidBody, "email and password are required"))
		return
	}

	body, profile, err := s.proxy.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeAuthFailure(w)
		return
	}

	s.mirrorSession(body, profile)
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "console.verify")
	defer span.End()

	token := bearerToken(r)
	if token == "" {
		token = s.sessions.Get().AccessToken
	}

	// Screen obviously dead tokens locally before the upstream round trip.
	claims, err := session.DecodeToken(token)
	if err != nil {
		writeAuthFailure(w)
		return
	}
	if !claims.ExpiresAt.IsZero() && claims.ExpiresAt.Before(time.Now()) {
		writeAuthFailure(w)
		return
	}

	body, profile, err := s.proxy.Verify(ctx, token)
	if err != nil {
		writeAuthFailure(w)
		return
	}

	s.sessions.SetAccessToken(token)
	s.mirrorSession(body, profile)
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "console.logout")
	defer span.End()

	s.sessions.ClearProfile()
	if s.manager != nil {
		s.manager.Stop()
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleThemeUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "console.theme_update")
	defer span.End()

	var req struct {
		Color string `json:"color"`
		Mode  string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeRequestInvalidBody, "decode theme body", err))
		return
	}
	if req.Color == "" || req.Mode == "" {
		writeError(w, apperrors.New(apperrors.CodeRequestInvalidBody, "color and mode are required"))
		return
	}

	token := bearerToken(r)
	if token == "" {
		token = s.sessions.Get().AccessToken
	}

	body, err := s.proxy.UpdateTheme(ctx, token, req.Color, req.Mode)
	if err != nil {
		writeAuthFailure(w)
		return
	}

	s.themes.SetColor(req.Color)
	s.themes.SetMode(req.Mode)
	s.sessions.SetColor(req.Color)
	s.sessions.SetMode(req.Mode)
	s.applyTheme()
	writeJSON(w, http.StatusOK, body)
}

// applyTheme renders the current theme preference onto the display root.
// The lock keeps the read-then-apply atomic, so the hydration render can
// never clobber a preference change that landed first.
func (s *Server) applyTheme() {
	s.displayMu.Lock()
	defer s.displayMu.Unlock()
	pref := s.themes.Get()
	s.display.Apply(pref.Color, pref.Mode, theme.TargetRoot)
}

func (s *Server) handleRealtimeStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "console.realtime_start")
	defer span.End()

	if err := s.manager.Start(ctx, s.endpoint); err != nil {
		writeError(w, err)
		return
	}
	s.writeRealtimeStatus(w)
}

func (s *Server) handleRealtimeStop(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.Start(r.Context(), "console.realtime_stop")
	defer span.End()

	s.manager.Stop()
	s.writeRealtimeStatus(w)
}

func (s *Server) handleRealtimeStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeRealtimeStatus(w)
}

func (s *Server) writeRealtimeStatus(w http.ResponseWriter) {
	st, lastErr := s.manager.State(), s.manager.Err()
	body := map[string]string{"state": string(st)}
	if lastErr != "" {
		body["error"] = lastErr
	}
	writeJSON(w, http.StatusOK, body)
}

// mirrorSession copies the authenticated profile and theme preferences
// into the durable stores so a restarted console rehydrates them.
func (s *Server) mirrorSession(body map[string]any, profile session.Profile) {
	s.sessions.SetProfile(profile)
	if token, ok := body["access_token"].(string); ok && token != "" {
		s.sessions.SetAccessToken(token)
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		return
	}
	if name, ok := user["name"].(string); ok && name != "" {
		s.sessions.SetUserName(name)
	}
	if color, ok := user["color"].(string); ok && color != "" {
		s.sessions.SetColor(color)
		s.themes.SetColor(color)
	}
	if mode, ok := user["mode"].(string); ok && mode != "" {
		s.sessions.SetMode(mode)
		s.themes.SetMode(mode)
	}
	s.applyTheme()
}

// requestIDMiddleware tags every request with an identifier for log and
// trace correlation. Inbound X-Request-ID values are trusted as-is.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			generated, err := id.NewID()
			if err != nil {
				generated = "unknown"
			}
			requestID = generated
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), requestID)))
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

// writeAuthFailure emits the single fixed denial used for every
// authentication failure, regardless of cause.
func writeAuthFailure(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, authFailureBody)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperrors.HTTPStatus(err), map[string]string{"detail": apperrors.Message(err)})
}
