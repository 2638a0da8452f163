// Package webapi exposes jotter over HTTP: the signup/login/logout/me
// gateway and the per-user todos resource. Handlers validate and parse
// at the boundary, translate store errors into status codes, and never
// leak internal failures to clients.
package webapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/avend/jotter/auth"
	"github.com/avend/jotter/internal/logutil"
	"github.com/avend/jotter/store"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

type (
	gateway struct {
		store    *store.Store
		sessions *auth.Sessions
		log      zerolog.Logger
	}

	// identityHandler is a handler that only runs behind a valid
	// session, it receives the resolved identity instead of digging it
	// out of the request again.
	identityHandler func(w http.ResponseWriter, r *http.Request, id auth.Identity)
)

// AsHandler wires every endpoint into a single router. The store and
// session manager arrive as explicit arguments, there is no package or
// process level state behind the handlers.
func AsHandler(ctx context.Context, st *store.Store, sessions *auth.Sessions) http.Handler {
	g := &gateway{store: st, sessions: sessions, log: logutil.GetOrDefault(ctx)}
	router := httprouter.New()
	router.HandlerFunc(http.MethodPost, "/api/users", g.signup)
	router.HandlerFunc(http.MethodPost, "/api/login", g.login)
	router.HandlerFunc(http.MethodPost, "/api/logout", g.logout)
	router.HandlerFunc(http.MethodGet, "/api/me", g.requireUser(g.whoami))
	router.HandlerFunc(http.MethodPost, "/api/todos", g.requireUser(g.createTodo))
	router.HandlerFunc(http.MethodGet, "/api/todos", g.requireUser(g.listTodos))
	router.HandlerFunc(http.MethodPatch, "/api/todos/:id", g.requireUser(g.updateTodo))
	router.HandlerFunc(http.MethodDelete, "/api/todos/:id", g.requireUser(g.deleteTodo))
	return router
}

// requireUser resolves the session cookie before letting the wrapped
// handler run. Missing cookie, unknown token and expired session all
// produce the same 401, clients get no hint of which one it was.
func (g *gateway) requireUser(next identityHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.ParseCookies(r.Header.Get("Cookie"))[auth.SessionCookieName]
		id, err := g.sessions.Validate(r.Context(), token)
		if err != nil {
			g.serverError(w, err, "unable to validate session")
			return
		}
		if id == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r, *id)
	}
}

// decodeJSON enforces the content-type and parses the request body into
// dst. On failure it writes the response itself and reports false;
// jsonBody selects between a JSON error object and a plain text error.
func (g *gateway) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, jsonBody bool) bool {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		g.reject(w, http.StatusUnsupportedMediaType, "Unsupported Media Type", jsonBody)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		g.reject(w, http.StatusBadRequest, "Invalid JSON body", jsonBody)
		return false
	}
	return true
}

func (g *gateway) reject(w http.ResponseWriter, status int, msg string, jsonBody bool) {
	if jsonBody {
		writeJSON(w, status, errorResponse{Error: msg})
		return
	}
	http.Error(w, msg, status)
}

func (g *gateway) serverError(w http.ResponseWriter, err error, msg string) {
	g.log.Error().Err(err).Msg(msg)
	http.Error(w, "unexpected server error, check logs for more information", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	buf, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "unable to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(status)
	w.Write(buf)
}
