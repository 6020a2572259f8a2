package api

import (
	"net/http"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
)

// Logout clears the cookies of the acting role. Tokens are not revoked and
// stay valid until they expire. With no valid session the route's own role
// is cleared, so logging out twice still succeeds.
func (a *API) Logout(role tokens.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acting := role
		if encoded := accessTokenFromRequest(r); encoded != "" {
			if principal, err := a.service.Authenticate(encoded); err == nil {
				acting = principal.Role
			}
		}

		a.clearSessionCookies(w, acting)
		returnJson(http.StatusOK, Response{Success: true, Message: "logged out successfully"}, w)
	}
}
