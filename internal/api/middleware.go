package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/metrics"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
	"github.com/gorilla/mux"
)

type principalContextKey struct{}

func WithPrincipal(ctx context.Context, principal *service.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, principal)
}

func PrincipalFromContext(ctx context.Context) (*service.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey{}).(*service.Principal)
	return principal, ok && principal != nil
}

// Authenticate resolves the request's access token into a live principal
// and attaches it to the context. It never refreshes anything.
func (a *API) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encoded := accessTokenFromRequest(r)
		if encoded == "" {
			a.metrics.ObserveRejection(metrics.ReasonMissingToken)
			logApiErr(r, "no token provided")
			returnJson(http.StatusUnauthorized, Response{Message: "unauthorized: no token provided"}, w)
			return
		}

		principal, err := a.service.Authenticate(encoded)
		if err != nil {
			a.metrics.ObserveRejection(metrics.ReasonInvalidToken)
			writeError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// RequireRole only lets principals with the given role through. It must
// run after Authenticate.
func (a *API) RequireRole(role tokens.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				a.metrics.ObserveRejection(metrics.ReasonNoPrincipal)
				writeError(w, r, fmt.Errorf("%w: no principal on request", service.ErrUnauthorized))
				return
			}
			if principal.Role != role {
				a.metrics.ObserveRejection(metrics.ReasonWrongRole)
				writeError(w, r, fmt.Errorf("%w: %s role required", service.ErrForbidden, role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *API) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if a.corsOrigin == "" || origin != a.corsOrigin {
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+AdminCreationSecretHeader)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// instrument records request duration labelled by the matched route
// template, so path ids do not explode the label set.
func (a *API) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		a.metrics.ObserveRequest(route, r.Method, rec.status, time.Since(start))
	})
}
