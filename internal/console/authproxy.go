package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/resohub/console/internal/platform/errors"
	"github.com/resohub/console/internal/platform/requestctx"
	"github.com/resohub/console/internal/session"
)

// authFailureBody is the fixed response for every authentication failure.
// The boundary never distinguishes bad credentials from an unreachable
// upstream, and upstream error detail is logged rather than leaked.
var authFailureBody = map[string]string{"detail": "Invalid credentials"}

// Doer abstracts the HTTP client used for upstream calls.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// loginRequest is the console-facing login payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthProxy forwards console authentication traffic to the upstream API
// and normalizes its responses.
type AuthProxy struct {
	loginURL  string
	verifyURL string
	themeURL  string
	client    Doer
	tracer    trace.Tracer
	logf      func(string, ...any)
}

// NewAuthProxy builds a proxy against the upstream API base URL.
func NewAuthProxy(upstreamBaseURL string, client Doer, logf func(string, ...any)) (*AuthProxy, error) {
	base := strings.TrimRight(strings.TrimSpace(upstreamBaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("upstream base url is required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &AuthProxy{
		loginURL:  base + "/users/login",
		verifyURL: base + "/users/verify-token",
		themeURL:  base + "/users/me/theme",
		client:    client,
		tracer:    otel.Tracer("console/authproxy"),
		logf:      logf,
	}, nil
}

// Login forwards console credentials to the upstream login endpoint.
//
// The console accepts {email, password} JSON and forwards it form-encoded
// as {username, password}. On upstream success the response is the
// upstream body with the normalized profile merged in.
func (p *AuthProxy) Login(ctx context.Context, email, password string) (map[string]any, session.Profile, error) {
	ctx, span := p.tracer.Start(ctx, "auth.login")
	defer span.End()

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, session.Profile{}, p.failure(ctx, span, apperrors.Wrap(apperrors.CodeAuthUpstreamFailure, "build login request", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := p.forward(req)
	if err != nil {
		return nil, session.Profile{}, p.failure(ctx, span, err)
	}

	profile := session.ProfileFromPayload(body)
	return session.MergeProfile(body, profile), profile, nil
}

// Verify resolves the profile behind an access token via the upstream
// verify endpoint. Rehydrated clients use it to re-seed profile state
// without replaying credentials.
func (p *AuthProxy) Verify(ctx context.Context, accessToken string) (map[string]any, session.Profile, error) {
	ctx, span := p.tracer.Start(ctx, "auth.verify")
	defer span.End()

	if strings.TrimSpace(accessToken) == "" {
		return nil, session.Profile{}, p.failure(ctx, span, apperrors.New(apperrors.CodeAuthMissingToken, "verify without access token"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.verifyURL, nil)
	if err != nil {
		return nil, session.Profile{}, p.failure(ctx, span, apperrors.Wrap(apperrors.CodeAuthUpstreamFailure, "build verify request", err))
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, err := p.forward(req)
	if err != nil {
		return nil, session.Profile{}, p.failure(ctx, span, err)
	}

	profile := session.ProfileFromPayload(body)
	return session.MergeProfile(body, profile), profile, nil
}

// UpdateTheme forwards a theme preference change to the upstream API.
func (p *AuthProxy) UpdateTheme(ctx context.Context, accessToken, color, mode string) (map[string]any, error) {
	ctx, span := p.tracer.Start(ctx, "auth.update_theme")
	defer span.End()

	if strings.TrimSpace(accessToken) == "" {
		return nil, p.failure(ctx, span, apperrors.New(apperrors.CodeAuthMissingToken, "theme update without access token"))
	}

	payload, err := json.Marshal(map[string]string{"color": color, "mode": mode})
	if err != nil {
		return nil, p.failure(ctx, span, apperrors.Wrap(apperrors.CodeAuthUpstreamFailure, "encode theme update", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, p.themeURL, strings.NewReader(string(payload)))
	if err != nil {
		return nil, p.failure(ctx, span, apperrors.Wrap(apperrors.CodeAuthUpstreamFailure, "build theme request", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, err := p.forward(req)
	if err != nil {
		return nil, p.failure(ctx, span, err)
	}
	return body, nil
}

// forward executes an upstream request and decodes its JSON body. Any
// non-success status or transport failure collapses into a single
// upstream-failure error carrying the logged-only detail.
func (p *AuthProxy) forward(req *http.Request) (map[string]any, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeAuthUpstreamFailure, "upstream request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeAuthUpstreamFailure, "read upstream response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.New(apperrors.CodeAuthUpstreamFailure,
			fmt.Sprintf("upstream status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	body := map[string]any{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeAuthUpstreamFailure, "decode upstream response", err)
	}
	return body, nil
}

// failure records the internal error for logs and telemetry, then returns
// it for the handler layer to collapse into the fixed denial.
func (p *AuthProxy) failure(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "authentication failure")
	if p.logf != nil {
		if requestID := requestctx.RequestIDFromContext(ctx); requestID != "" {
			p.logf("auth proxy request %s: %v", requestID, err)
		} else {
			p.logf("auth proxy: %v", err)
		}
	}
	return err
}
