package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/metrics"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
)

type RefreshResponse struct {
	Response
	NewAccessToken string      `json:"newAccessToken"`
	Role           tokens.Role `json:"role"`
}

type refreshContextKey struct{}

func withRefreshResult(ctx context.Context, result *service.RefreshResult) context.Context {
	return context.WithValue(ctx, refreshContextKey{}, result)
}

func refreshResultFromContext(ctx context.Context) (*service.RefreshResult, bool) {
	result, ok := ctx.Value(refreshContextKey{}).(*service.RefreshResult)
	return result, ok && result != nil
}

// RefreshSession exchanges the refresh cookie for a new access token, sets
// the access cookie for the principal's role and hands the result to next.
// The refresh cookie is left untouched.
func (a *API) RefreshSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encoded := refreshTokenFromRequest(r)
		if encoded == "" {
			a.metrics.ObserveRefresh(metrics.OutcomeFailure)
			logApiErr(r, "no refresh token provided")
			returnJson(http.StatusUnauthorized, Response{Message: "unauthorized: no refresh token provided"}, w)
			return
		}

		result, err := a.service.Refresh(encoded)
		if err != nil {
			a.metrics.ObserveRefresh(metrics.OutcomeFailure)
			writeError(w, r, err)
			return
		}
		a.metrics.ObserveRefresh(metrics.OutcomeSuccess)

		a.setAccessCookie(w, result.Principal.Role, result.AccessToken)

		ctx := withRefreshResult(r.Context(), result)
		ctx = WithPrincipal(ctx, result.Principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *API) Refresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, ok := refreshResultFromContext(r.Context())
		if !ok {
			writeError(w, r, fmt.Errorf("%w: refresh result missing from context", service.ErrInternal))
			return
		}

		response := RefreshResponse{
			Response:       Response{Success: true, Message: "access token refreshed"},
			NewAccessToken: result.AccessToken.Encoded(),
			Role:           result.Principal.Role,
		}
		returnJson(http.StatusOK, &response, w)
	}
}
