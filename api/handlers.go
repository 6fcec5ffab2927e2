package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"todo/todo"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CreateRequest struct {
	Text string `json:"text"`
}

type CreateResponse struct {
	ID uint64 `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TodoResponse struct {
	ID   uint64 `json:"id"`
	Text string `json:"text"`
}

type StatusResponse struct {
	ID        uint64 `json:"id"`
	Completed bool   `json:"completed"`
	Status    string `json:"status"`
}

type CountResponse struct {
	Count uint64 `json:"count"`
}

func (a *Api) CreateTodoHandler(w http.ResponseWriter, r *http.Request) {
	d := json.NewDecoder(r.Body)
	d.DisallowUnknownFields()

	req := CreateRequest{}
	if err := d.Decode(&req); err != nil {
		msg := fmt.Sprintf("Error unmarshalling body: %v", err)
		a.logger(r.Context()).Info("bad create request", zap.Error(err))
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id, err := a.Todos.Create(req.Text)
	if err != nil {
		a.internalError(w, r, "create", err)
		return
	}

	a.record(r.Context(), todo.NewEvent(todo.OpCreate, id, nil))
	writeJSON(w, http.StatusCreated, CreateResponse{ID: id})
}

func (a *Api) CompleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	err := a.Todos.Complete(id)
	a.mutationResult(w, r, todo.OpComplete, id, err)
}

func (a *Api) DeleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	err := a.Todos.Delete(id)
	a.mutationResult(w, r, todo.OpDelete, id, err)
}

func (a *Api) mutationResult(w http.ResponseWriter, r *http.Request, op todo.Op, id uint64, err error) {
	switch {
	case errors.Is(err, todo.ErrNotFound):
		a.record(r.Context(), todo.NewEvent(op, id, err))
		writeError(w, http.StatusNotFound, todo.Message(op, err))
	case err != nil:
		a.internalError(w, r, string(op), err)
	default:
		a.record(r.Context(), todo.NewEvent(op, id, nil))
		writeJSON(w, http.StatusOK, MessageResponse{Message: todo.Message(op, nil)})
	}
}

func (a *Api) GetTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	text, err := a.Todos.Get(id)
	switch {
	case errors.Is(err, todo.ErrNotFound):
		writeError(w, http.StatusNotFound, todo.MsgNotFound)
	case err != nil:
		a.internalError(w, r, "get", err)
	default:
		writeJSON(w, http.StatusOK, TodoResponse{ID: id, Text: text})
	}
}

func (a *Api) IsCompletedHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}

	completed, err := a.Todos.IsCompleted(id)
	if err != nil {
		a.internalError(w, r, "is completed", err)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		ID:        id,
		Completed: completed,
		Status:    todo.StatusOf(completed).String(),
	})
}

func (a *Api) CountTodosHandler(w http.ResponseWriter, r *http.Request) {
	n, err := a.Todos.Count()
	if err != nil {
		a.internalError(w, r, "count", err)
		return
	}

	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

func (a *Api) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	events := []todo.Event{}
	if a.Events != nil {
		stored, err := a.Events.List()
		if err != nil {
			a.internalError(w, r, "list events", err)
			return
		}
		events = append(events, stored...)
	}

	writeJSON(w, http.StatusOK, events)
}

func todoID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid todo id %q", raw))
		return 0, false
	}

	return id, true
}

func (a *Api) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	a.logger(r.Context()).Error("storage failure", zap.String("op", op), zap.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrResponse{HTTPStatusCode: status, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
