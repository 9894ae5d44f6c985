package server

import (
	"encoding/json"
	"net/http"
)

const (
	authCookieName  = "authToken"
	authCookieValue = "authenticated"
)

type authStatus struct {
	Authenticated bool `json:"authenticated"`
}

// CheckAuth reports whether the request carries the auth cookie for the
// gated route: 200 when the cookie value matches, 401 otherwise. Nothing
// beyond the boolean and the status code is revealed.
func CheckAuth(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(authCookieName)
	authed := err == nil && c.Value == authCookieValue
	w.Header().Set("Content-Type", "application/json")
	if !authed {
		w.WriteHeader(http.StatusUnauthorized)
	}
	_ = json.NewEncoder(w).Encode(authStatus{Authenticated: authed})
}
