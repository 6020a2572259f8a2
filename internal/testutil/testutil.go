// Package testutil provides test environment setup and utilities for internal package tests.
package testutil

import (
	"net/http"
	"testing"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/api"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/database"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/metrics"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	TestIssuer      = "test.taskmgr.local"
	TestAdminSecret = "test-admin-creation-secret"
)

// TestSecrets returns the token secrets every test env signs with.
func TestSecrets() tokens.Secrets {
	return tokens.Secrets{
		Access:  []byte("test-access-secret"),
		Refresh: []byte("test-refresh-secret"),
		Issuer:  TestIssuer,
	}
}

// TestEnv provides all dependencies needed for testing
type TestEnv struct {
	DB             *database.SQLiteStore
	Service        *service.Service
	Router         http.Handler
	TokenIssuer    tokens.Issuer
	TokenValidator tokens.Validator
	Registry       *prometheus.Registry
	Metrics        *metrics.Metrics
}

// SetupTestEnv creates an isolated test environment with in-memory SQLite
func SetupTestEnv(
	t *testing.T,
	opts ...tokens.ServerOption,
) *TestEnv {
	t.Helper()

	// create in-memory SQLite database
	db := database.NewSQLiteStore(":memory:")

	// create token issuer/validator
	issuer, validator := tokens.InitServer(TestSecrets(), opts...)

	// create service
	svc := service.New(
		db.IdentityStore(),
		db.TaskStore(),
		issuer,
		validator,
		service.PasswordModeTesting,
	)

	registry := prometheus.NewRegistry()

	// setup cleanup
	t.Cleanup(func() {
		_ = db.Close()
	})

	return &TestEnv{
		DB:             db,
		Service:        svc,
		TokenIssuer:    issuer,
		TokenValidator: validator,
		Registry:       registry,
		Metrics:        metrics.New(registry),
	}
}

// SetupTestEnvWithRouter creates TestEnv and configures the API router.
// The admin creation secret is TestAdminSecret unless opts override it.
func SetupTestEnvWithRouter(
	t *testing.T,
	opts ...api.Option,
) *TestEnv {
	t.Helper()
	env := SetupTestEnv(t)
	defaults := []api.Option{
		api.WithMetrics(env.Metrics),
		api.WithAdminCreationSecret(api.StaticSecret(TestAdminSecret)),
	}
	a := api.New(env.Service, append(defaults, opts...)...)
	env.Router = a.Router()
	return env
}

// RegisterTestUser creates a test user in the database
func (env *TestEnv) RegisterTestUser(
	t *testing.T,
	name string,
	email string,
	password string,
) *service.Identity {
	t.Helper()
	identity, err := env.Service.RegisterUser(service.RegistrationRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("failed to register test user: %v", err)
	}
	return identity
}

// CreateTestAdmin creates a test admin in the database
func (env *TestEnv) CreateTestAdmin(
	t *testing.T,
	name string,
	email string,
	password string,
) *service.Identity {
	t.Helper()
	identity, err := env.Service.CreateAdmin(service.RegistrationRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("failed to create test admin: %v", err)
	}
	return identity
}

// LoginAs logs in through the service for the given entry point role
func (env *TestEnv) LoginAs(
	t *testing.T,
	role tokens.Role,
	email string,
	password string,
) *service.Session {
	t.Helper()
	session, err := env.Service.Login(service.LoginRequest{
		Email:    email,
		Password: password,
	}, role)
	if err != nil {
		t.Fatalf("failed to log in test %s: %v", role, err)
	}
	return session
}

// IssueTestAccessToken creates an access token for testing
func (env *TestEnv) IssueTestAccessToken(
	t *testing.T,
	identity *service.Identity,
) *tokens.AccessToken {
	t.Helper()
	token, err := env.TokenIssuer.IssueAccessToken(identity.ID, identity.Email, identity.Role)
	if err != nil {
		t.Fatalf("failed to issue test access token: %v", err)
	}
	return token
}

// IssueTestRefreshToken creates a refresh token for testing
func (env *TestEnv) IssueTestRefreshToken(
	t *testing.T,
	identity *service.Identity,
) *tokens.RefreshToken {
	t.Helper()
	token, err := env.TokenIssuer.IssueRefreshToken(identity.ID, identity.Role)
	if err != nil {
		t.Fatalf("failed to issue test refresh token: %v", err)
	}
	return token
}
