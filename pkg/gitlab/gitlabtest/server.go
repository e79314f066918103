// Package gitlabtest provides an in-memory GitLab users API for tests.
package gitlabtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// Token is the only access token the fake accepts.
const Token = "glpat-secret"

const usersPath = "/api/v4/users"

// Server is a fake GitLab.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	users  map[string]map[string]any
	nextID int64
	calls  []string
}

// NewServer starts an empty fake. The first created user gets id 11.
func NewServer() *Server {
	s := &Server{users: map[string]map[string]any{}, nextID: 10}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// PutUser stores user as is and assigns an id when it has none.
func (s *Server) PutUser(user map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := user["id"]; !ok {
		s.nextID++
		user["id"] = s.nextID
	}
	s.users[user["username"].(string)] = user
}

// User returns the stored user or nil.
func (s *Server) User(username string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[username]
}

// Count returns the number of stored users.
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// Calls returns "METHOD path" for every request received.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, r.Method+" "+r.URL.Path)
	if r.Header.Get("Authorization") != "Bearer "+Token {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"401 Unauthorized"}`)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == usersPath:
		out := []map[string]any{}
		if u, ok := s.users[r.URL.Query().Get("username")]; ok {
			out = append(out, u)
		}
		_ = json.NewEncoder(w).Encode(out)
	case r.Method == http.MethodPost && r.URL.Path == usersPath:
		var u map[string]any
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if _, exists := s.users[u["username"].(string)]; exists {
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, `{"message":"Username has already been taken"}`)
			return
		}
		s.nextID++
		u["id"] = s.nextID
		delete(u, "password")
		s.users[u["username"].(string)] = u
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(u)
	case r.Method == http.MethodPut:
		name, u, ok := s.byPath(r.URL.Path)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var patch map[string]any
		_ = json.NewDecoder(r.Body).Decode(&patch)
		delete(patch, "password")
		for k, v := range patch {
			u[k] = v
		}
		s.users[name] = u
		_ = json.NewEncoder(w).Encode(u)
	case r.Method == http.MethodDelete:
		name, _, ok := s.byPath(r.URL.Path)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		delete(s.users, name)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *Server) byPath(path string) (string, map[string]any, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(path, usersPath+"/"), 10, 64)
	if err != nil {
		return "", nil, false
	}
	for name, u := range s.users {
		if n, ok := u["id"].(float64); ok && int64(n) == id {
			return name, u, true
		}
		if n, ok := u["id"].(int64); ok && n == id {
			return name, u, true
		}
	}
	return "", nil, false
}
