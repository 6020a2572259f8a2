package api

import (
	"net/http"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/pkg/tokens"
	"github.com/gorilla/mux"
)

const (
	AdminPrefix = "/api/v1/admin_route"
	UserPrefix  = "/api/v1/user_route"
)

func (a *API) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(a.instrument)

	r.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		returnJson(http.StatusOK, Response{Success: true, Message: "ok"}, w)
	}).Methods(http.MethodGet)

	asAdmin := func(h http.Handler) http.Handler { return a.Authenticate(a.RequireRole(tokens.RoleAdmin)(h)) }
	asUser := func(h http.Handler) http.Handler { return a.Authenticate(a.RequireRole(tokens.RoleUser)(h)) }

	admin := r.PathPrefix(AdminPrefix).Subrouter()
	admin.Handle("/create_admin", a.CreateAdmin()).Methods(http.MethodPost)
	admin.Handle("/login_admin", a.Login(tokens.RoleAdmin)).Methods(http.MethodPost)
	admin.Handle("/logout_admin", a.Logout(tokens.RoleAdmin)).Methods(http.MethodPost)
	admin.Handle("/refresh_token", a.RefreshSession(a.Refresh())).Methods(http.MethodPost)
	admin.Handle("/seeAllUsers", asAdmin(a.ListUsers())).Methods(http.MethodGet)
	admin.Handle("/delete_user/{id}", asAdmin(a.DeleteUser())).Methods(http.MethodDelete)

	user := r.PathPrefix(UserPrefix).Subrouter()
	user.Handle("/create_user", a.Register()).Methods(http.MethodPost)
	user.Handle("/login_user", a.Login(tokens.RoleUser)).Methods(http.MethodPost)
	user.Handle("/logout_user", a.Logout(tokens.RoleUser)).Methods(http.MethodPost)
	user.Handle("/refresh_token", a.RefreshSession(a.Refresh())).Methods(http.MethodPost)
	user.Handle("/my_profile", a.Authenticate(a.MyProfile())).Methods(http.MethodGet)
	user.Handle("/update_profile", a.Authenticate(a.UpdateProfile())).Methods(http.MethodPatch)
	user.Handle("/create_task", asUser(a.CreateTask())).Methods(http.MethodPost)
	user.Handle("/my_tasks", asUser(a.MyTasks())).Methods(http.MethodGet)
	user.Handle("/task/{id}", asUser(a.GetTask())).Methods(http.MethodGet)
	user.Handle("/task/{id}", asUser(a.UpdateTask())).Methods(http.MethodPut)
	user.Handle("/task/{id}", asUser(a.DeleteTask())).Methods(http.MethodDelete)

	// preflight requests never match a route, so CORS wraps the router
	return a.cors(r)
}
