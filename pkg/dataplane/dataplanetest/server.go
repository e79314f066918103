// Package dataplanetest provides an in-memory Dataplane API for tests.
//
// The fake implements the v2 configuration endpoints used by the client
// package with version and transaction checks that mimic the real API:
// a mutation must carry either an open transaction_id or the current
// version, otherwise it is answered with 409. Changes staged in a
// transaction are applied immediately; commit only moves the version.
package dataplanetest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
)

const (
	Username = "admin"
	Password = "adminpwd"

	configPrefix  = "/v2/services/haproxy/configuration/"
	txPrefix      = "/v2/services/haproxy/transactions"
	storagePrefix = "/v2/services/haproxy/storage/ssl_certificates"
)

// Object is a stored resource in its JSON form.
type Object = map[string]any

// RecordedRequest is one request seen by the server.
type RecordedRequest struct {
	Method string
	Path   string
	Query  map[string]string
	Body   string
}

// Server is a fake Dataplane API.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	version      int64
	named        map[string]map[string]Object // collection -> key -> object
	indexed      map[string][]Object          // collection|parent -> ordered rules
	transactions map[string]Object
	certs        map[string]string
	requests     []RecordedRequest
	nextTx       int
	failures     map[string]int // "METHOD path" -> status
}

// NewServer starts a fake at configuration version 1.
func NewServer() *Server {
	s := &Server{
		version:      1,
		named:        map[string]map[string]Object{},
		indexed:      map[string][]Object{},
		transactions: map[string]Object{},
		certs:        map[string]string{},
		failures:     map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Version returns the current configuration version.
func (s *Server) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// SetVersion moves the configuration version, e.g. to simulate a
// concurrent writer.
func (s *Server) SetVersion(v int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = v
}

// FailNext makes the next request matching method and path (relative to
// /v2/) answer with status.
func (s *Server) FailNext(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" /v2/"+strings.TrimPrefix(path, "/")] = status
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
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

// PutNamed stores a named resource. parent is "" for top-level sections,
// otherwise "type/name".
func (s *Server) PutNamed(collection, parent string, obj Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bucket(collection, parent)[fmt.Sprint(obj["name"])] = obj
}

// Named returns a stored resource or nil.
func (s *Server) Named(collection, parent, name string) Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bucket(collection, parent)[name]
}

// SetRules replaces a positional rule list. parent is "type/name" or, for
// backend switching rules, the frontend name.
func (s *Server) SetRules(collection, parent string, rules ...Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexed[collection+"|"+parent] = rules
}

// Rules returns a positional rule list.
func (s *Server) Rules(collection, parent string) []Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Object(nil), s.indexed[collection+"|"+parent]...)
}

// AddTransaction registers an open transaction on the current version.
func (s *Server) AddTransaction(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[id] = Object{"id": id, "_version": s.version, "status": "in_progress"}
}

// Transactions returns the open transaction ids, sorted.
func (s *Server) Transactions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.transactions))
	for id := range s.transactions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PutCertificate stores a certificate file.
func (s *Server) PutCertificate(name, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.certs[name] = content
}

// Certificate returns the stored content of a certificate.
func (s *Server) Certificate(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.certs[name]
	return c, ok
}

func (s *Server) bucket(collection, parent string) map[string]Object {
	key := collection + "|" + parent
	b, ok := s.named[key]
	if !ok {
		b = map[string]Object{}
		s.named[key] = b
	}
	return b
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	s.mu.Lock()
	defer s.mu.Unlock()

	query := map[string]string{}
	for k := range r.URL.Query() {
		query[k] = r.URL.Query().Get(k)
	}
	s.requests = append(s.requests, RecordedRequest{Method: r.Method, Path: r.URL.Path, Query: query, Body: string(body)})

	if user, pass, ok := r.BasicAuth(); !ok || user != Username || pass != Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if status, ok := s.failures[r.Method+" "+r.URL.Path]; ok {
		delete(s.failures, r.Method+" "+r.URL.Path)
		writeError(w, status, "injected failure")
		return
	}

	path := r.URL.Path
	switch {
	case path == configPrefix+"version":
		_, _ = fmt.Fprintf(w, "%d\n", s.version)
	case strings.HasPrefix(path, txPrefix):
		s.handleTransactions(w, r, strings.Trim(strings.TrimPrefix(path, txPrefix), "/"))
	case strings.HasPrefix(path, storagePrefix):
		s.handleCertificates(w, r, strings.Trim(strings.TrimPrefix(path, storagePrefix), "/"), body)
	case strings.HasPrefix(path, configPrefix):
		s.handleConfiguration(w, r, strings.TrimPrefix(path, configPrefix), body)
	default:
		writeError(w, http.StatusNotFound, "unknown path "+path)
	}
}

// checkScope validates transaction_id or version. On success it reports
// whether the change is direct (outside a transaction).
func (s *Server) checkScope(w http.ResponseWriter, r *http.Request) (direct bool, ok bool) {
	q := r.URL.Query()
	if tx := q.Get("transaction_id"); tx != "" {
		if _, exists := s.transactions[tx]; !exists {
			writeError(w, http.StatusNotFound, "transaction "+tx+" not found")
			return false, false
		}
		return false, true
	}
	v, err := strconv.ParseInt(q.Get("version"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "version or transaction not specified")
		return false, false
	}
	if v != s.version {
		w.Header().Set("Configuration-Version", strconv.FormatInt(s.version, 10))
		writeError(w, http.StatusConflict, fmt.Sprintf("version mismatch, has: %d, given: %d", s.version, v))
		return false, false
	}
	return true, true
}

func (s *Server) handleConfiguration(w http.ResponseWriter, r *http.Request, rest string, body []byte) {
	collection, item, _ := strings.Cut(rest, "/")
	q := r.URL.Query()

	switch collection {
	case "backends", "frontends":
		s.handleNamed(w, r, collection, "", item, body)
	case "servers", "binds":
		s.handleNamed(w, r, collection, q.Get("parent_type")+"/"+q.Get("parent_name"), item, body)
	case "acls", "http_request_rules":
		s.handleIndexed(w, r, collection, q.Get("parent_type")+"/"+q.Get("parent_name"), item, body)
	case "backend_switching_rules":
		s.handleIndexed(w, r, collection, q.Get("frontend"), item, body)
	default:
		writeError(w, http.StatusNotFound, "unknown collection "+collection)
	}
}

func (s *Server) handleNamed(w http.ResponseWriter, r *http.Request, collection, parent, name string, body []byte) {
	b := s.bucket(collection, parent)

	if r.Method == http.MethodGet {
		if name == "" {
			list := make([]Object, 0, len(b))
			keys := make([]string, 0, len(b))
			for k := range b {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				list = append(list, b[k])
			}
			writeEnvelope(w, http.StatusOK, s.version, list)
			return
		}
		obj, ok := b[name]
		if !ok {
			writeError(w, http.StatusNotFound, "object "+name+" not found")
			return
		}
		writeEnvelope(w, http.StatusOK, s.version, obj)
		return
	}

	direct, ok := s.checkScope(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		obj, err := decodeObject(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		key := fmt.Sprint(obj["name"])
		if _, exists := b[key]; exists {
			writeError(w, http.StatusConflict, "object "+key+" already exists")
			return
		}
		b[key] = obj
		s.bump(direct)
		writeJSON(w, statusFor(direct, http.StatusCreated), obj)
	case http.MethodPut:
		if _, exists := b[name]; !exists {
			writeError(w, http.StatusNotFound, "object "+name+" not found")
			return
		}
		obj, err := decodeObject(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		b[name] = obj
		s.bump(direct)
		writeJSON(w, statusFor(direct, http.StatusOK), obj)
	case http.MethodDelete:
		if _, exists := b[name]; !exists {
			writeError(w, http.StatusNotFound, "object "+name+" not found")
			return
		}
		delete(b, name)
		s.bump(direct)
		w.WriteHeader(statusFor(direct, http.StatusNoContent))
	default:
		writeError(w, http.StatusMethodNotAllowed, r.Method)
	}
}

func (s *Server) handleIndexed(w http.ResponseWriter, r *http.Request, collection, parent, item string, body []byte) {
	key := collection + "|" + parent
	rules := s.indexed[key]

	index := -1
	if item != "" {
		i, err := strconv.Atoi(item)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid index "+item)
			return
		}
		index = i
	}

	if r.Method == http.MethodGet {
		if index < 0 {
			list := make([]Object, 0, len(rules))
			for i, rule := range rules {
				list = append(list, withIndex(rule, i))
			}
			writeEnvelope(w, http.StatusOK, s.version, list)
			return
		}
		if index >= len(rules) {
			writeError(w, http.StatusNotFound, "no rule at index "+item)
			return
		}
		writeEnvelope(w, http.StatusOK, s.version, withIndex(rules[index], index))
		return
	}

	direct, ok := s.checkScope(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodPost:
		obj, err := decodeObject(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		at := len(rules)
		if v, ok := obj["index"].(float64); ok && int(v) >= 0 && int(v) < len(rules) {
			at = int(v)
		}
		delete(obj, "index")
		rules = append(rules[:at], append([]Object{obj}, rules[at:]...)...)
		s.indexed[key] = rules
		s.bump(direct)
		writeJSON(w, statusFor(direct, http.StatusCreated), withIndex(obj, at))
	case http.MethodPut:
		if index < 0 || index >= len(rules) {
			writeError(w, http.StatusNotFound, "no rule at index "+item)
			return
		}
		obj, err := decodeObject(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		delete(obj, "index")
		rules[index] = obj
		s.bump(direct)
		writeJSON(w, statusFor(direct, http.StatusOK), withIndex(obj, index))
	case http.MethodDelete:
		if index < 0 || index >= len(rules) {
			writeError(w, http.StatusNotFound, "no rule at index "+item)
			return
		}
		s.indexed[key] = append(rules[:index], rules[index+1:]...)
		s.bump(direct)
		w.WriteHeader(statusFor(direct, http.StatusNoContent))
	default:
		writeError(w, http.StatusMethodNotAllowed, r.Method)
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request, id string) {
	q := r.URL.Query()

	switch {
	case id == "" && r.Method == http.MethodGet:
		filter := q.Get("version")
		list := []Object{}
		for _, txID := range sortedKeys(s.transactions) {
			tx := s.transactions[txID]
			if filter != "" && fmt.Sprint(tx["_version"]) != filter {
				continue
			}
			list = append(list, tx)
		}
		writeJSON(w, http.StatusOK, list)
	case id == "" && r.Method == http.MethodPost:
		v, err := strconv.ParseInt(q.Get("version"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "version is required")
			return
		}
		if v != s.version {
			w.Header().Set("Configuration-Version", strconv.FormatInt(s.version, 10))
			writeError(w, http.StatusConflict, "version mismatch")
			return
		}
		s.nextTx++
		txID := fmt.Sprintf("tx-%04d", s.nextTx)
		tx := Object{"id": txID, "_version": v, "status": "in_progress"}
		s.transactions[txID] = tx
		writeJSON(w, http.StatusCreated, tx)
	default:
		tx, ok := s.transactions[id]
		if !ok {
			writeError(w, http.StatusNotFound, "transaction "+id+" not found")
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, tx)
		case http.MethodPut:
			if fmt.Sprint(tx["_version"]) != strconv.FormatInt(s.version, 10) {
				writeError(w, http.StatusNotAcceptable, "transaction is outdated")
				return
			}
			delete(s.transactions, id)
			s.version++
			done := Object{"id": id, "_version": tx["_version"], "status": "success"}
			if q.Get("force_reload") == "true" {
				writeJSON(w, http.StatusOK, done)
				return
			}
			w.Header().Set("Reload-ID", "reload-"+id)
			writeJSON(w, http.StatusAccepted, done)
		case http.MethodDelete:
			delete(s.transactions, id)
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, r.Method)
		}
	}
}

func (s *Server) handleCertificates(w http.ResponseWriter, r *http.Request, name string, body []byte) {
	switch {
	case name == "" && r.Method == http.MethodGet:
		list := []Object{}
		for _, n := range sortedKeys(s.certs) {
			list = append(list, certObject(n))
		}
		writeJSON(w, http.StatusOK, list)
	case name == "" && r.Method == http.MethodPost:
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		file, header, err := r.FormFile("file_upload")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if _, exists := s.certs[header.Filename]; exists {
			writeError(w, http.StatusConflict, "file "+header.Filename+" already exists")
			return
		}
		s.certs[header.Filename] = string(data)
		writeJSON(w, http.StatusCreated, certObject(header.Filename))
	default:
		if _, ok := s.certs[name]; !ok {
			writeError(w, http.StatusNotFound, "certificate "+name+" not found")
			return
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, certObject(name))
		case http.MethodPut:
			s.certs[name] = string(body)
			writeJSON(w, http.StatusOK, certObject(name))
		case http.MethodDelete:
			delete(s.certs, name)
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed, r.Method)
		}
	}
}

func (s *Server) bump(direct bool) {
	if direct {
		s.version++
	}
}

// statusFor returns 202 for changes staged in a transaction.
func statusFor(direct bool, status int) int {
	if direct {
		return status
	}
	return http.StatusAccepted
}

func certObject(name string) Object {
	return Object{"file": "/etc/haproxy/ssl/" + name, "storage_name": name, "description": "managed certificate"}
}

func withIndex(obj Object, index int) Object {
	out := make(Object, len(obj)+1)
	for k, v := range obj {
		out[k] = v
	}
	out["index"] = index
	return out
}

func decodeObject(body []byte) (Object, error) {
	var obj Object
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("invalid body: %w", err)
	}
	return obj, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeEnvelope(w http.ResponseWriter, status int, version int64, data any) {
	writeJSON(w, status, Object{"_version": version, "data": data})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Object{"code": status, "message": msg})
}
