package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/api"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
)

type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelDebug
)
const LogLevelDefault = LogLevelError

const DefaultTimeout = 10 * time.Second

var (
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrSessionExpired = errors.New("session expired")
	ErrBadResponse    = errors.New("invalid server response")
)

// StatusError is returned for any non-2xx response the client does not
// handle itself.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server responded %d", e.StatusCode)
	}
	return fmt.Sprintf("server responded %d: %s", e.StatusCode, e.Message)
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its Jar is replaced by
// the client's own.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

// WithSessionExpiredHandler registers a callback invoked with the login
// path of the expired session's role after a refresh fails.
func WithSessionExpiredHandler(fn func(loginPath string)) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

func WithLogLevel(level LogLevel) Option {
	return func(c *Client) { c.logLevel = level }
}

// Client talks to the task scheduler API. Requests carry the stored access
// token as a bearer header and the session cookies through the jar. A 401
// triggers one coordinated refresh and a single replay of the request.
type Client struct {
	baseURL          *url.URL
	http             *http.Client
	jar              *sessionJar
	tokens           *TokenStore
	coordinator      *Coordinator
	onSessionExpired func(loginPath string)
	logLevel         LogLevel
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse base url: %q is not absolute", baseURL)
	}

	jar, err := newSessionJar()
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		baseURL:  u,
		http:     &http.Client{Timeout: DefaultTimeout},
		jar:      jar,
		tokens:   &TokenStore{},
		logLevel: LogLevelDefault,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Jar = jar
	c.coordinator = NewCoordinator(c.refresh, c.expireSession)

	return c, nil
}

func (c *Client) Tokens() *TokenStore {
	return c.tokens
}

func (c *Client) Coordinator() *Coordinator {
	return c.coordinator
}

func (c *Client) log(level LogLevel, format string, v ...any) {
	if c.logLevel >= level {
		log.Printf(format, v...)
	}
}

func prefix(role tokens.Role) string {
	if role == tokens.RoleAdmin {
		return api.AdminPrefix
	}
	return api.UserPrefix
}

// LoginPath is the front-end login page for role.
func LoginPath(role tokens.Role) string {
	if role == tokens.RoleAdmin {
		return "/admin/login"
	}
	return "/login"
}

func refreshPath(role tokens.Role) string {
	return prefix(role) + "/refresh_token"
}

func loginEndpoint(role tokens.Role) string {
	if role == tokens.RoleAdmin {
		return api.AdminPrefix + "/login_admin"
	}
	return api.UserPrefix + "/login_user"
}

func logoutEndpoint(role tokens.Role) string {
	if role == tokens.RoleAdmin {
		return api.AdminPrefix + "/logout_admin"
	}
	return api.UserPrefix + "/logout_user"
}

// Login starts a session through role's entry point. The stored role marker
// follows the account that matched, not the entry point.
func (c *Client) Login(
	ctx context.Context,
	role tokens.Role,
	email string,
	password string,
) (*api.LoginResponse, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, http.MethodPost, loginEndpoint(role), payload, "")
	if err != nil {
		return nil, err
	}

	login := new(api.LoginResponse)
	if err := decodeResponse(resp, login); err != nil {
		c.log(LogLevelInfo, "login as %s failed: %v\n", role, err)
		return nil, err
	}
	if login.Token == "" || !login.User.Role.Valid() {
		return nil, ErrBadResponse
	}

	c.tokens.Set(login.Token, login.User.Role)
	c.log(LogLevelDebug, "logged in as %s\n", login.User.Role)
	return login, nil
}

// Logout ends the session on the server and forgets it locally. Local state
// is cleared even if the server cannot be reached.
func (c *Client) Logout(ctx context.Context) error {
	role := c.tokens.Role()
	defer c.clearSession()

	resp, err := c.send(ctx, http.MethodPost, logoutEndpoint(role), nil, c.tokens.Access())
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body any, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

/*
Do sends a JSON request and decodes the JSON response into out, if out is
not nil. When the server answers 401 and a session exists, the request waits
for a coordinated refresh and is replayed once with the new token. A replayed
request is never retried again.

Errors are a *StatusError for non-2xx responses, or [ErrSessionExpired] when
the refresh failed.
*/
func (c *Client) Do(
	ctx context.Context,
	method string,
	path string,
	body any,
	out any,
) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	generation := c.coordinator.Generation()
	resp, err := c.send(ctx, method, path, payload, c.tokens.Access())
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusUnauthorized || c.tokens.Role() == "" {
		return decodeResponse(resp, out)
	}
	drain(resp)

	c.log(LogLevelDebug, "%s %s unauthorized, waiting for refresh\n", method, path)
	token, err := c.coordinator.Refresh(ctx, generation)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	resp, err = c.send(ctx, method, path, payload, token)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func (c *Client) send(
	ctx context.Context,
	method string,
	path string,
	payload []byte,
	token string,
) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log(LogLevelError, "%s %s failed: %v\n", method, path, err)
		return nil, err
	}
	return resp, nil
}

// refresh exchanges the refresh cookie held in the jar for a new access
// token. The endpoint follows the stored role marker.
func (c *Client) refresh(ctx context.Context) (string, error) {
	role := c.tokens.Role()
	if role == "" {
		return "", ErrNotLoggedIn
	}

	c.log(LogLevelDebug, "refreshing %s session\n", role)
	resp, err := c.send(ctx, http.MethodPost, refreshPath(role), nil, "")
	if err != nil {
		return "", err
	}

	refreshed := new(api.RefreshResponse)
	if err := decodeResponse(resp, refreshed); err != nil {
		return "", err
	}
	if refreshed.NewAccessToken == "" {
		return "", ErrBadResponse
	}

	c.tokens.SetAccess(refreshed.NewAccessToken)
	return refreshed.NewAccessToken, nil
}

func (c *Client) expireSession(err error) {
	role := c.tokens.Role()
	c.log(LogLevelInfo, "session refresh failed: %v\n", err)
	c.clearSession()
	if c.onSessionExpired != nil {
		c.onSessionExpired(LoginPath(role))
	}
}

func (c *Client) clearSession() {
	c.tokens.Clear()
	c.jar.Reset()
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		envelope := api.Response{}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return &StatusError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
