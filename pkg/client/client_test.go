package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/api"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/testutil"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/client"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
)

const protectedPath = api.UserPrefix + "/my_tasks"

// stubServer accepts only the bearer token handed out by its refresh
// endpoint, so the first request after login always comes back 401.
type stubServer struct {
	refreshes     atomic.Int32
	release       chan struct{}
	refreshStatus int
	issued        string
	accepted      string

	// when set, the first rejected request waits here before answering
	hold    chan struct{}
	holding atomic.Bool
}

func newStubServer(t *testing.T) (*stubServer, *httptest.Server) {
	t.Helper()
	s := &stubServer{
		refreshStatus: http.StatusOK,
		issued:        "fresh",
		accepted:      "fresh",
	}

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	login := func(role tokens.Role) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "refresh", Value: "r", Path: "/"})
			writeJSON(w, http.StatusOK, api.LoginResponse{
				Response: api.Response{Success: true},
				Token:    "stale",
				User:     service.IdentityView{ID: "1", Role: role},
			})
		}
	}
	refresh := func(w http.ResponseWriter, r *http.Request) {
		s.refreshes.Add(1)
		if s.release != nil {
			<-s.release
		}
		if s.refreshStatus != http.StatusOK {
			writeJSON(w, s.refreshStatus, api.Response{Message: "unauthorized: invalid or expired token"})
			return
		}
		writeJSON(w, http.StatusOK, api.RefreshResponse{
			Response:       api.Response{Success: true},
			NewAccessToken: s.issued,
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+api.UserPrefix+"/login_user", login(tokens.RoleUser))
	mux.HandleFunc("POST "+api.AdminPrefix+"/login_admin", login(tokens.RoleAdmin))
	mux.HandleFunc("POST "+api.UserPrefix+"/refresh_token", refresh)
	mux.HandleFunc("POST "+api.AdminPrefix+"/refresh_token", refresh)
	mux.HandleFunc("GET "+protectedPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.accepted {
			if s.hold != nil && s.holding.CompareAndSwap(false, true) {
				<-s.hold
			}
			writeJSON(w, http.StatusUnauthorized, api.Response{Message: "unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, api.TasksResponse{
			Response: api.Response{Success: true},
			Tasks:    []service.Task{},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return s, server
}

func newClient(t *testing.T, baseURL string, opts ...client.Option) *client.Client {
	t.Helper()
	c, err := client.New(baseURL, append([]client.Option{client.WithLogLevel(client.LogLevelNone)}, opts...)...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	t.Parallel()

	if _, err := client.New("localhost:3000/api"); err == nil {
		t.Error("expected error for url without scheme")
	}
}

func TestDo_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	t.Parallel()

	// setup env
	stub, server := newStubServer(t)
	stub.release = make(chan struct{})
	c := newClient(t, server.URL)
	ctx := context.Background()
	if _, err := c.Login(ctx, tokens.RoleUser, "alice@example.com", "password123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// three requests fail with the stale token
	errs := make(chan error, 3)
	for range 3 {
		go func() {
			var out api.TasksResponse
			errs <- c.Get(ctx, protectedPath, &out)
		}()
	}

	waitFor(t, func() bool { return c.Coordinator().Pending() == 3 })
	close(stub.release)

	for range 3 {
		if err := <-errs; err != nil {
			t.Errorf("request failed: %v", err)
		}
	}
	if n := stub.refreshes.Load(); n != 1 {
		t.Errorf("refresh called %d times, want 1", n)
	}
	if token := c.Tokens().Access(); token != "fresh" {
		t.Errorf("stored token = %q, want fresh", token)
	}
}

func TestDo_RejectedAfterRefreshSettledReusesToken(t *testing.T) {
	t.Parallel()

	// setup env
	stub, server := newStubServer(t)
	stub.hold = make(chan struct{})
	c := newClient(t, server.URL)
	ctx := context.Background()
	if _, err := c.Login(ctx, tokens.RoleUser, "alice@example.com", "password123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// the first request is held with its stale token
	held := make(chan error, 1)
	go func() {
		held <- c.Get(ctx, protectedPath, nil)
	}()
	waitFor(t, func() bool { return stub.holding.Load() })

	// a second request refreshes and finishes meanwhile
	if err := c.Get(ctx, protectedPath, nil); err != nil {
		t.Fatalf("second request failed: %v", err)
	}

	// the held request is rejected only now and replays with the new token
	close(stub.hold)
	if err := <-held; err != nil {
		t.Errorf("held request failed: %v", err)
	}
	if n := stub.refreshes.Load(); n != 1 {
		t.Errorf("refresh called %d times, want 1", n)
	}
}

func TestDo_ReplaysOnlyOnce(t *testing.T) {
	t.Parallel()

	// setup env, refresh hands out a token the route still rejects
	stub, server := newStubServer(t)
	stub.issued = "also-stale"
	c := newClient(t, server.URL)
	ctx := context.Background()
	if _, err := c.Login(ctx, tokens.RoleUser, "alice@example.com", "password123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	err := c.Get(ctx, protectedPath, nil)

	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 StatusError, got %v", err)
	}
	if n := stub.refreshes.Load(); n != 1 {
		t.Errorf("refresh called %d times, want 1", n)
	}
}

func TestDo_NoSessionNoRefresh(t *testing.T) {
	t.Parallel()

	// setup env
	stub, server := newStubServer(t)
	c := newClient(t, server.URL)

	err := c.Get(context.Background(), protectedPath, nil)

	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 StatusError, got %v", err)
	}
	if n := stub.refreshes.Load(); n != 0 {
		t.Errorf("refresh called %d times, want 0", n)
	}
}

func TestDo_RefreshFailureExpiresSession(t *testing.T) {
	t.Parallel()

	for role, wantPath := range map[tokens.Role]string{
		tokens.RoleUser:  "/login",
		tokens.RoleAdmin: "/admin/login",
	} {
		t.Run(string(role), func(t *testing.T) {
			t.Parallel()

			// setup env
			stub, server := newStubServer(t)
			stub.refreshStatus = http.StatusUnauthorized

			var mu sync.Mutex
			var expired []string
			c := newClient(t, server.URL, client.WithSessionExpiredHandler(func(loginPath string) {
				mu.Lock()
				defer mu.Unlock()
				expired = append(expired, loginPath)
			}))
			ctx := context.Background()
			if _, err := c.Login(ctx, role, "someone@example.com", "password123"); err != nil {
				t.Fatalf("login failed: %v", err)
			}

			err := c.Get(ctx, protectedPath, nil)
			if !errors.Is(err, client.ErrSessionExpired) {
				t.Fatalf("expected ErrSessionExpired, got %v", err)
			}

			mu.Lock()
			defer mu.Unlock()
			if len(expired) != 1 || expired[0] != wantPath {
				t.Errorf("session expired callbacks = %v, want [%s]", expired, wantPath)
			}
			if c.Tokens().Access() != "" || c.Tokens().Role() != "" {
				t.Error("tokens not cleared after failed refresh")
			}
		})
	}
}

func TestClient_AgainstRouter(t *testing.T) {
	t.Parallel()

	// setup env
	env := testutil.SetupTestEnvWithRouter(t)
	env.RegisterTestUser(t, "Alice", "alice@example.com", "password123")
	server := httptest.NewServer(env.Router)
	t.Cleanup(server.Close)

	c := newClient(t, server.URL)
	ctx := context.Background()

	login, err := c.Login(ctx, tokens.RoleUser, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if login.User.Role != tokens.RoleUser || c.Tokens().Role() != tokens.RoleUser {
		t.Fatalf("unexpected role after login: %s", login.User.Role)
	}

	// a broken access token is recovered through the refresh cookie
	c.Tokens().SetAccess("garbage")
	var profile api.UserResponse
	if err := c.Get(ctx, api.UserPrefix+"/my_profile", &profile); err != nil {
		t.Fatalf("profile request failed: %v", err)
	}
	if profile.User.Email != "alice@example.com" {
		t.Errorf("profile email = %s", profile.User.Email)
	}
	if c.Tokens().Access() == "garbage" {
		t.Error("access token was not refreshed")
	}

	// normal traffic with bodies
	var created api.TaskResponse
	if err := c.Post(ctx, api.UserPrefix+"/create_task", map[string]string{"title": "Write client"}, &created); err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	var updated api.TaskResponse
	if err := c.Put(ctx, api.UserPrefix+"/task/"+created.Task.ID, map[string]string{"status": "completed"}, &updated); err != nil {
		t.Fatalf("update task failed: %v", err)
	}
	if updated.Task.Status != service.StatusCompleted {
		t.Errorf("status = %s", updated.Task.Status)
	}

	// logout forgets everything
	if err := c.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if c.Tokens().Access() != "" {
		t.Error("token kept after logout")
	}
	err = c.Get(ctx, api.UserPrefix+"/my_tasks", nil)
	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %v", err)
	}
}
