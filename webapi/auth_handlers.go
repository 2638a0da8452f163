package webapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/avend/jotter/auth"
	"github.com/avend/jotter/store"
)

type (
	credentialsRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	okResponse struct {
		OK bool `json:"ok"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}

	messageResponse struct {
		Message string `json:"message"`
	}
)

func (g *gateway) signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !g.decodeJSON(w, r, &req, true) {
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing username or password"})
		return
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		g.serverError(w, err, "unable to hash password")
		return
	}
	_, err = g.store.CreateUser(r.Context(), username, hash)
	if err != nil {
		// the unique constraint is the existence check, racing signups
		// both reach the insert and the loser lands here
		var taken store.UsernameTaken
		if errors.As(err, &taken) {
			writeJSON(w, http.StatusConflict, errorResponse{Error: "Username already exists"})
			return
		}
		g.serverError(w, err, "unable to create user")
		return
	}
	writeJSON(w, http.StatusCreated, okResponse{OK: true})
}

func (g *gateway) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !g.decodeJSON(w, r, &req, true) {
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing username or password"})
		return
	}
	user, err := g.store.LookupUser(r.Context(), username)
	if err != nil {
		g.serverError(w, err, "unable to lookup user")
		return
	}
	// unknown user and wrong password collapse into one answer, the
	// response must not reveal which usernames exist
	if user == nil || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid credentials"})
		return
	}
	token, _, err := g.sessions.Issue(r.Context(), user.ID)
	if err != nil {
		g.serverError(w, err, "unable to issue session")
		return
	}
	w.Header().Set("Set-Cookie", auth.SessionCookie(token, auth.SessionTTLSeconds))
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (g *gateway) logout(w http.ResponseWriter, r *http.Request) {
	token := auth.ParseCookies(r.Header.Get("Cookie"))[auth.SessionCookieName]
	if token != "" {
		if err := g.sessions.Revoke(r.Context(), token); err != nil {
			g.serverError(w, err, "unable to revoke session")
			return
		}
	}
	// an already-logged-out client still gets the clearing cookie and
	// a success, logout has nothing to fail about
	w.Header().Set("Set-Cookie", auth.ClearSessionCookie())
	w.WriteHeader(http.StatusNoContent)
}

func (g *gateway) whoami(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Hello, %v!", id.Username)})
}
