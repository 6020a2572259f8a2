package api

import (
	"net/http"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/metrics"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
)

type LoginResponse struct {
	Response
	Token        string               `json:"token"`
	RefreshToken string               `json:"refreshToken"`
	User         service.IdentityView `json:"user"`
}

// Login serves one entry point. The role decides how the identity is looked
// up; the cookies written follow the role of the identity that matched.
func (a *API) Login(role tokens.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := service.LoginRequest{}
		if ok := decodeRequest(&req, w, r); !ok {
			return
		}

		session, err := a.service.Login(req, role)
		if err != nil {
			a.metrics.ObserveLogin(string(role), metrics.OutcomeFailure)
			writeError(w, r, err)
			return
		}
		a.metrics.ObserveLogin(string(role), metrics.OutcomeSuccess)

		a.setSessionCookies(w, session)

		response := LoginResponse{
			Response:     Response{Success: true, Message: "login successful"},
			Token:        session.AccessToken.Encoded(),
			RefreshToken: session.RefreshToken.Encoded(),
			User:         session.User,
		}
		returnJson(http.StatusOK, &response, w)
	}
}
