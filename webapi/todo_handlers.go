package webapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/avend/jotter/auth"
	"github.com/avend/jotter/store"
	"github.com/julienschmidt/httprouter"
)

type (
	createTodoRequest struct {
		Text string `json:"text"`
	}

	updateTodoRequest struct {
		Text      *string `json:"text"`
		Completed *bool   `json:"completed"`
	}

	todoCreatedResponse struct {
		ID        int64  `json:"id"`
		Text      string `json:"text"`
		Completed bool   `json:"completed"`
	}

	todoItem struct {
		ID        int64  `json:"id"`
		Text      string `json:"text"`
		Completed bool   `json:"completed"`
		CreatedAt string `json:"created_at"`
	}

	todoListResponse struct {
		Todos []todoItem `json:"todos"`
	}
)

func todoIDFromRequest(r *http.Request) (int64, bool) {
	raw := httprouter.ParamsFromContext(r.Context()).ByName("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (g *gateway) createTodo(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req createTodoRequest
	if !g.decodeJSON(w, r, &req, false) {
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		http.Error(w, "Missing 'text'", http.StatusBadRequest)
		return
	}
	todoID, err := g.store.CreateTodo(r.Context(), id.UserID, text)
	if err != nil {
		g.serverError(w, err, "unable to create todo")
		return
	}
	writeJSON(w, http.StatusCreated, todoCreatedResponse{ID: todoID, Text: text, Completed: false})
}

func (g *gateway) listTodos(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	todos, err := g.store.ListTodos(r.Context(), id.UserID)
	if err != nil {
		g.serverError(w, err, "unable to list todos")
		return
	}
	// an empty list renders as [], not null
	items := make([]todoItem, 0, len(todos))
	for _, t := range todos {
		items = append(items, todoItem{ID: t.ID, Text: t.Text, Completed: t.Completed, CreatedAt: t.CreatedAt})
	}
	writeJSON(w, http.StatusOK, todoListResponse{Todos: items})
}

func (g *gateway) updateTodo(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	todoID, ok := todoIDFromRequest(r)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	var req updateTodoRequest
	if !g.decodeJSON(w, r, &req, false) {
		return
	}
	patch := store.TodoPatch{Completed: req.Completed}
	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		if text == "" {
			http.Error(w, "Invalid 'text'", http.StatusBadRequest)
			return
		}
		patch.Text = &text
	}
	if patch.Text == nil && patch.Completed == nil {
		http.Error(w, "No fields to update", http.StatusBadRequest)
		return
	}
	changed, err := g.store.UpdateTodo(r.Context(), id.UserID, todoID, patch)
	if err != nil {
		g.serverError(w, err, "unable to update todo")
		return
	}
	// zero rows means absent or owned by someone else, same 404 either
	// way
	if !changed {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (g *gateway) deleteTodo(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	todoID, ok := todoIDFromRequest(r)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	deleted, err := g.store.DeleteTodo(r.Context(), id.UserID, todoID)
	if err != nil {
		g.serverError(w, err, "unable to delete todo")
		return
	}
	if !deleted {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
