package api

import (
	"fmt"
	"net/http"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
)

// principal returns the request's principal or writes a 401. Handlers
// behind Authenticate always have one.
func principal(w http.ResponseWriter, r *http.Request) (*service.Principal, bool) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, fmt.Errorf("%w: no principal on request", service.ErrUnauthorized))
		return nil, false
	}
	return p, true
}

func (a *API) MyProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}

		view, err := a.service.Profile(p.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}

		response := UserResponse{
			Response: Response{Success: true, Message: "profile fetched"},
			User:     *view,
		}
		returnJson(http.StatusOK, &response, w)
	}
}

func (a *API) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}

		req := service.ProfileUpdate{}
		if ok := decodeRequest(&req, w, r); !ok {
			return
		}

		view, err := a.service.UpdateProfile(p.ID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}

		response := UserResponse{
			Response: Response{Success: true, Message: "profile updated"},
			User:     *view,
		}
		returnJson(http.StatusOK, &response, w)
	}
}
