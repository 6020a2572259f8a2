package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
)

type UserResponse struct {
	Response
	User service.IdentityView `json:"user"`
}

func (a *API) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := service.RegistrationRequest{}
		if ok := decodeRequest(&req, w, r); !ok {
			return
		}

		identity, err := a.service.RegisterUser(req)
		if err != nil {
			writeError(w, r, err)
			return
		}

		response := UserResponse{
			Response: Response{Success: true, Message: "user registered successfully"},
			User:     identity.View(),
		}
		returnJson(http.StatusCreated, &response, w)
	}
}

func (a *API) CreateAdmin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.adminCreationAllowed(r) {
			writeError(w, r, fmt.Errorf("%w: admin creation secret missing or invalid", service.ErrForbidden))
			return
		}

		req := service.RegistrationRequest{}
		if ok := decodeRequest(&req, w, r); !ok {
			return
		}

		identity, err := a.service.CreateAdmin(req)
		if err != nil {
			writeError(w, r, err)
			return
		}

		response := UserResponse{
			Response: Response{Success: true, Message: "admin created successfully"},
			User:     identity.View(),
		}
		returnJson(http.StatusCreated, &response, w)
	}
}

func (a *API) adminCreationAllowed(r *http.Request) bool {
	expected := a.adminSecret.Secret()
	provided := r.Header.Get(AdminCreationSecretHeader)
	if expected == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}
