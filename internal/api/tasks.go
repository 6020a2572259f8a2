package api

import (
	"net/http"

	"github.com/SagaRoy12/MULTI-ROLE-TASK-SCHEDULER/internal/service"
	"github.com/gorilla/mux"
)

type TaskResponse struct {
	Response
	Task service.Task `json:"task"`
}

type TasksResponse struct {
	Response
	Tasks []service.Task `json:"tasks"`
}

func (a *API) CreateTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}

		req := service.TaskInput{}
		if ok := decodeRequest(&req, w, r); !ok {
			return
		}

		task, err := a.service.CreateTask(p.ID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}

		response := TaskResponse{
			Response: Response{Success: true, Message: "task created"},
			Task:     *task,
		}
		returnJson(http.StatusCreated, &response, w)
	}
}

func (a *API) MyTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}

		tasks, err := a.service.ListTasks(p.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}

		response := TasksResponse{
			Response: Response{Success: true, Message: "tasks fetched"},
			Tasks:    tasks,
		}
		returnJson(http.StatusOK, &response, w)
	}
}

func (a *API) GetTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}

		task, err := a.service.GetTask(p.ID, mux.Vars(r)["id"])
		if err != nil {
			writeError(w, r, err)
			return
		}

		response := TaskResponse{
			Response: Response{Success: true, Message: "task fetched"},
			Task:     *task,
		}
		returnJson(http.StatusOK, &response, w)
	}
}

func (a *API) UpdateTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}

		req := service.TaskPatch{}
		if ok := decodeRequest(&req, w, r); !ok {
			return
		}

		task, err := a.service.UpdateTask(p.ID, mux.Vars(r)["id"], req)
		if err != nil {
			writeError(w, r, err)
			return
		}

		response := TaskResponse{
			Response: Response{Success: true, Message: "task updated"},
			Task:     *task,
		}
		returnJson(http.StatusOK, &response, w)
	}
}

func (a *API) DeleteTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}

		task, err := a.service.DeleteTask(p.ID, mux.Vars(r)["id"])
		if err != nil {
			writeError(w, r, err)
			return
		}

		response := TaskResponse{
			Response: Response{Success: true, Message: "task deleted"},
			Task:     *task,
		}
		returnJson(http.StatusOK, &response, w)
	}
}
