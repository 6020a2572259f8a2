package api

import (
	"net/http"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
	"github.com/gorilla/mux"
)

type UsersResponse struct {
	Response
	Users []service.IdentityView `json:"users"`
}

func (a *API) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := a.service.ListUsers()
		if err != nil {
			writeError(w, r, err)
			return
		}

		response := UsersResponse{
			Response: Response{Success: true, Message: "users fetched"},
			Users:    users,
		}
		returnJson(http.StatusOK, &response, w)
	}
}

func (a *API) DeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}

		view, err := a.service.DeleteUser(p.ID, mux.Vars(r)["id"])
		if err != nil {
			writeError(w, r, err)
			return
		}

		response := UserResponse{
			Response: Response{Success: true, Message: "user deleted"},
			User:     *view,
		}
		returnJson(http.StatusOK, &response, w)
	}
}
