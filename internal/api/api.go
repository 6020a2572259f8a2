// Package api exposes the service over HTTP: JSON handlers, cookie
// transport for tokens, the session middleware and the role guard.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/metrics"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
)

// AdminCreationSecretHeader carries the shared secret that allows creating
// admin accounts over HTTP.
const AdminCreationSecretHeader = "X-Admin-Creation-Secret"

// SecretSource yields the current admin creation secret. An empty secret
// disables admin creation entirely.
type SecretSource interface {
	Secret() string
}

// StaticSecret is a SecretSource that never changes.
type StaticSecret string

func (s StaticSecret) Secret() string { return string(s) }

type API struct {
	service       *service.Service
	metrics       *metrics.Metrics
	adminSecret   SecretSource
	secureCookies bool
	corsOrigin    string
}

type Option func(*API)

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *API) { a.metrics = m }
}

func WithAdminCreationSecret(source SecretSource) Option {
	return func(a *API) { a.adminSecret = source }
}

func WithSecureCookies(secure bool) Option {
	return func(a *API) { a.secureCookies = secure }
}

// WithCORSOrigin allows one browser origin to call the API with credentials.
func WithCORSOrigin(origin string) Option {
	return func(a *API) { a.corsOrigin = origin }
}

func New(svc *service.Service, opts ...Option) *API {
	a := &API{
		service:     svc,
		adminSecret: StaticSecret(""),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Response is the envelope every JSON reply shares.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func decodeRequest[T any](req *T, w http.ResponseWriter, r *http.Request) bool {
	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil {
		logApiErr(r, "bad json request")
		returnJson(http.StatusBadRequest, Response{Message: "bad json request"}, w)
		return false
	}
	return true
}

func returnJson(status int, data any, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v\n", err)
	}
}

func logApiErr(r *http.Request, msg string) {
	log.Printf("%s %s: %s\n", r.Method, r.RequestURI, msg)
}

// writeError logs err in full and replies with the status its kind maps to.
// Token failures all read the same to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logApiErr(r, err.Error())

	status := http.StatusInternalServerError
	message := err.Error()
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "invalid credentials"
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = "unauthorized: invalid or expired token"
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	}

	returnJson(status, Response{Message: message}, w)
}
