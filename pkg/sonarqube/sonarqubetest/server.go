// Package sonarqubetest provides an in-memory SonarQube Web API for tests.
package sonarqubetest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"sort"
	"strings"
	"sync"
)

const (
	Username = "admin"
	Password = "admin-password"
)

// Object is a stored resource in its JSON form.
type Object = map[string]any

// RecordedRequest is one request seen by the server.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Body     string
}

// Query parses the recorded query string.
func (r RecordedRequest) Query() url.Values {
	q, _ := url.ParseQuery(r.RawQuery)
	return q
}

// Server is a fake SonarQube.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	nextID      int
	users       map[string]Object // login -> user
	groups      map[string]Object // name -> group
	memberships map[string]Object // id -> membership
	permissions map[string][]string
	settings    map[string]Object // key|component -> setting
	alm         map[string][]Object
	projects    map[string]Object
	dops        []Object
	tokens      map[string]string
	requests    []RecordedRequest
}

// NewServer starts an empty fake.
func NewServer() *Server {
	s := &Server{
		users:       map[string]Object{},
		groups:      map[string]Object{},
		memberships: map[string]Object{},
		permissions: map[string][]string{},
		settings:    map[string]Object{},
		alm:         map[string][]Object{},
		projects:    map[string]Object{},
		tokens:      map[string]string{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *Server) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

// AddUser stores a user and returns its id.
func (s *Server) AddUser(login, name, email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id("user")
	s.users[login] = Object{"id": id, "login": login, "name": name, "email": email, "local": true, "active": true, "scmAccounts": []any{}}
	return id
}

// User returns the stored user or nil.
func (s *Server) User(login string) Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[login]
}

// AddGroup stores a group and returns its id.
func (s *Server) AddGroup(name, description string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id("group")
	s.groups[name] = Object{"id": id, "name": name, "description": description}
	return id
}

// Group returns the stored group or nil.
func (s *Server) Group(name string) Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groups[name]
}

// AddMembership stores a membership and returns its id.
func (s *Server) AddMembership(userID, groupID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id("membership")
	s.memberships[id] = Object{"id": id, "userId": userID, "groupId": groupID}
	return id
}

// Memberships returns the group ids the user belongs to, sorted.
func (s *Server) Memberships(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, m := range s.memberships {
		if m["userId"] == userID {
			out = append(out, m["groupId"].(string))
		}
	}
	sort.Strings(out)
	return out
}

// Permissions returns the group's global permissions, sorted.
func (s *Server) Permissions(group string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := slices.Clone(s.permissions[group])
	sort.Strings(out)
	return out
}

// SetSetting stores a setting value.
func (s *Server) SetSetting(key, component string, value string, values ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key+"|"+component] = settingObject(key, value, values)
}

// Setting returns the stored setting or nil.
func (s *Server) Setting(key, component string) Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings[key+"|"+component]
}

// AddAlmSetting stores an ALM definition under platform.
func (s *Server) AddAlmSetting(platform string, def Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alm[platform] = append(s.alm[platform], def)
}

// AlmSetting returns the stored definition or nil.
func (s *Server) AlmSetting(platform, key string) Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.alm[platform] {
		if d["key"] == key {
			return d
		}
	}
	return nil
}

// Token returns the personal access token set on an ALM setting.
func (s *Server) Token(almSetting string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[almSetting]
}

// AddProject stores a project.
func (s *Server) AddProject(key, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[key] = Object{"key": key, "name": name, "qualifier": "TRK", "visibility": "public"}
}

// Project returns the stored project or nil.
func (s *Server) Project(key string) Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects[key]
}

// AddDopSetting stores a DevOps platform setting and returns its id.
func (s *Server) AddDopSetting(key, kind string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id("dop")
	s.dops = append(s.dops, Object{"id": id, "key": key, "type": kind, "url": "https://" + kind + ".example.com"})
	return id
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Mutations returns the recorded non-GET requests.
func (s *Server) Mutations() []RecordedRequest {
	var out []RecordedRequest
	for _, r := range s.Requests() {
		if r.Method != http.MethodGet {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, RecordedRequest{Method: r.Method, Path: r.URL.Path, RawQuery: r.URL.RawQuery, Body: string(body)})

	if user, pass, ok := r.BasicAuth(); !ok || user != Username || pass != Password {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	q := r.URL.Query()
	path := strings.TrimPrefix(r.URL.Path, "/")

	switch {
	case path == "api/v2/users-management/users" || strings.HasPrefix(path, "api/v2/users-management/users/"):
		s.handleUsers(w, r, strings.TrimPrefix(strings.TrimPrefix(path, "api/v2/users-management/users"), "/"), body)
	case path == "api/v2/authorizations/groups" || strings.HasPrefix(path, "api/v2/authorizations/groups/"):
		s.handleGroups(w, r, strings.TrimPrefix(strings.TrimPrefix(path, "api/v2/authorizations/groups"), "/"), body)
	case path == "api/v2/authorizations/group-memberships" || strings.HasPrefix(path, "api/v2/authorizations/group-memberships/"):
		s.handleMemberships(w, r, strings.TrimPrefix(strings.TrimPrefix(path, "api/v2/authorizations/group-memberships"), "/"), body)
	case path == "api/permissions/add_group" || path == "api/permissions/remove_group":
		s.handlePermission(w, q, path == "api/permissions/add_group")
	case path == "api/settings/values":
		list := []Object{}
		if st, ok := s.settings[q.Get("keys")+"|"+q.Get("component")]; ok {
			list = append(list, st)
		}
		writeJSON(w, http.StatusOK, Object{"settings": list})
	case path == "api/settings/set":
		if q.Get("key") == "" {
			writeError(w, http.StatusBadRequest, "The 'key' parameter is missing")
			return
		}
		s.settings[q.Get("key")+"|"+q.Get("component")] = settingObject(q.Get("key"), q.Get("value"), q["values"])
		w.WriteHeader(http.StatusNoContent)
	case path == "api/settings/reset":
		delete(s.settings, q.Get("keys")+"|"+q.Get("component"))
		w.WriteHeader(http.StatusNoContent)
	case path == "api/alm_settings/list_definitions":
		out := Object{}
		for _, p := range []string{"github", "gitlab", "azure", "bitbucket", "bitbucketcloud"} {
			list := []Object{}
			list = append(list, s.alm[p]...)
			out[p] = list
		}
		writeJSON(w, http.StatusOK, out)
	case strings.HasPrefix(path, "api/alm_settings/create_"), strings.HasPrefix(path, "api/alm_settings/update_"):
		s.handleAlmWrite(w, r, strings.TrimPrefix(path, "api/alm_settings/"))
	case path == "api/alm_settings/delete":
		for p, defs := range s.alm {
			s.alm[p] = slices.DeleteFunc(defs, func(d Object) bool { return d["key"] == q.Get("key") })
		}
		w.WriteHeader(http.StatusNoContent)
	case path == "api/alm_integrations/set_pat":
		s.tokens[q.Get("almSetting")] = q.Get("pat")
		w.WriteHeader(http.StatusNoContent)
	case path == "api/projects/search":
		list := []Object{}
		if p, ok := s.projects[q.Get("projects")]; ok {
			list = append(list, p)
		}
		writeJSON(w, http.StatusOK, Object{"paging": Object{"pageIndex": 1, "pageSize": 1, "total": len(list)}, "components": list})
	case path == "api/projects/bulk_delete":
		delete(s.projects, q.Get("projects"))
		w.WriteHeader(http.StatusNoContent)
	case path == "api/v2/dop-translation/dop-settings":
		list := []Object{}
		list = append(list, s.dops...)
		writeJSON(w, http.StatusOK, Object{"dopSettings": list})
	case path == "api/v2/dop-translation/bound-projects" && r.Method == http.MethodPost:
		var in Object
		if err := json.Unmarshal(body, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		key, _ := in["projectKey"].(string)
		name, _ := in["projectName"].(string)
		s.projects[key] = Object{"key": key, "name": name, "qualifier": "TRK", "visibility": "private"}
		writeJSON(w, http.StatusCreated, Object{"projectId": s.id("project"), "bindingId": s.id("binding")})
	default:
		writeError(w, http.StatusNotFound, "Unknown url : /"+path)
	}
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request, id string, body []byte) {
	switch {
	case id == "" && r.Method == http.MethodGet:
		needle := r.URL.Query().Get("q")
		list := []Object{}
		for _, login := range sortedKeys(s.users) {
			if strings.Contains(login, needle) {
				list = append(list, s.users[login])
			}
		}
		writeJSON(w, http.StatusOK, Object{"users": list, "page": Object{"pageIndex": 1, "pageSize": 50, "total": len(list)}})
	case id == "" && r.Method == http.MethodPost:
		in, ok := decode(w, body)
		if !ok {
			return
		}
		login, _ := in["login"].(string)
		if _, exists := s.users[login]; exists {
			writeError(w, http.StatusConflict, "A user with login '"+login+"' already exists")
			return
		}
		delete(in, "password")
		in["id"] = s.id("user")
		in["active"] = true
		if in["scmAccounts"] == nil {
			in["scmAccounts"] = []any{}
		}
		s.users[login] = in
		writeJSON(w, http.StatusOK, in)
	default:
		login, user := findByID(s.users, id)
		if user == nil {
			writeError(w, http.StatusNotFound, "User '"+id+"' not found")
			return
		}
		switch r.Method {
		case http.MethodPatch:
			if r.Header.Get("Content-Type") != "application/merge-patch+json" {
				writeError(w, http.StatusUnsupportedMediaType, "Content-Type is not supported")
				return
			}
			patch, ok := decode(w, body)
			if !ok {
				return
			}
			for k, v := range patch {
				user[k] = v
			}
			delete(s.users, login)
			s.users[user["login"].(string)] = user
			writeJSON(w, http.StatusOK, user)
		case http.MethodDelete:
			delete(s.users, login)
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, r.Method)
		}
	}
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request, id string, body []byte) {
	switch {
	case id == "" && r.Method == http.MethodGet:
		needle := strings.ToLower(r.URL.Query().Get("q"))
		list := []Object{}
		for _, name := range sortedKeys(s.groups) {
			if strings.Contains(strings.ToLower(name), needle) {
				list = append(list, s.groups[name])
			}
		}
		writeJSON(w, http.StatusOK, Object{"groups": list})
	case id == "" && r.Method == http.MethodPost:
		in, ok := decode(w, body)
		if !ok {
			return
		}
		name, _ := in["name"].(string)
		in["id"] = s.id("group")
		s.groups[name] = in
		writeJSON(w, http.StatusOK, in)
	default:
		name, group := findByID(s.groups, id)
		if group == nil {
			writeError(w, http.StatusNotFound, "Group '"+id+"' not found")
			return
		}
		switch r.Method {
		case http.MethodPatch:
			patch, ok := decode(w, body)
			if !ok {
				return
			}
			for k, v := range patch {
				group[k] = v
			}
			delete(s.groups, name)
			s.groups[group["name"].(string)] = group
			writeJSON(w, http.StatusOK, group)
		case http.MethodDelete:
			delete(s.groups, name)
			delete(s.permissions, name)
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, r.Method)
		}
	}
}

func (s *Server) handleMemberships(w http.ResponseWriter, r *http.Request, id string, body []byte) {
	switch {
	case id == "" && r.Method == http.MethodGet:
		userID := r.URL.Query().Get("userId")
		list := []Object{}
		for _, mid := range sortedKeys(s.memberships) {
			if m := s.memberships[mid]; m["userId"] == userID {
				list = append(list, m)
			}
		}
		writeJSON(w, http.StatusOK, Object{"groupMemberships": list})
	case id == "" && r.Method == http.MethodPost:
		in, ok := decode(w, body)
		if !ok {
			return
		}
		in["id"] = s.id("membership")
		s.memberships[in["id"].(string)] = in
		writeJSON(w, http.StatusOK, in)
	case r.Method == http.MethodDelete:
		if _, ok := s.memberships[id]; !ok {
			writeError(w, http.StatusNotFound, "Group membership '"+id+"' not found")
			return
		}
		delete(s.memberships, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, r.Method)
	}
}

func (s *Server) handlePermission(w http.ResponseWriter, q url.Values, add bool) {
	group, perm := q.Get("groupName"), q.Get("permission")
	if _, ok := s.groups[group]; !ok {
		writeError(w, http.StatusNotFound, "No group with name '"+group+"'")
		return
	}
	perms := slices.DeleteFunc(s.permissions[group], func(p string) bool { return p == perm })
	if add {
		perms = append(perms, perm)
	}
	s.permissions[group] = perms
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAlmWrite(w http.ResponseWriter, r *http.Request, action string) {
	verb, platform, _ := strings.Cut(action, "_")
	q := r.URL.Query()
	def := Object{"key": q.Get("key")}
	for _, k := range []string{"url", "appId", "clientId", "workspace"} {
		if v := q.Get(k); v != "" {
			def[k] = v
		}
	}

	defs := s.alm[platform]
	idx := slices.IndexFunc(defs, func(d Object) bool { return d["key"] == q.Get("key") })
	switch verb {
	case "create":
		if idx >= 0 {
			writeError(w, http.StatusBadRequest, "An ALM setting with key '"+q.Get("key")+"' already exists")
			return
		}
		s.alm[platform] = append(defs, def)
	case "update":
		if idx < 0 {
			writeError(w, http.StatusNotFound, "ALM setting with key '"+q.Get("key")+"' cannot be found")
			return
		}
		if nk := q.Get("newKey"); nk != "" {
			def["key"] = nk
		}
		defs[idx] = def
	}
	w.WriteHeader(http.StatusNoContent)
}

func settingObject(key, value string, values []string) Object {
	st := Object{"key": key, "inherited": false}
	if len(values) > 0 {
		list := make([]any, 0, len(values))
		for _, v := range values {
			list = append(list, v)
		}
		st["values"] = list
	} else {
		st["value"] = value
	}
	return st
}

func findByID(m map[string]Object, id string) (string, Object) {
	for k, v := range m {
		if v["id"] == id {
			return k, v
		}
	}
	return "", nil
}

func decode(w http.ResponseWriter, body []byte) (Object, bool) {
	var obj Object
	if err := json.Unmarshal(body, &obj); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return obj, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Object{"errors": []Object{{"msg": msg}}})
}
