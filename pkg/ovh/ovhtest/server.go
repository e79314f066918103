// Package ovhtest provides an in-memory OVH DNS zone API for tests.
package ovhtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	AppKey      = "app-key"
	AppSecret   = "app-secret"
	ConsumerKey = "consumer-key"
)

// Record is a stored zone record.
type Record struct {
	ID        int64  `json:"id"`
	Zone      string `json:"zone"`
	SubDomain string `json:"subDomain"`
	FieldType string `json:"fieldType"`
	Target    string `json:"target"`
	TTL       int64  `json:"ttl"`
}

// Server is a fake OVH API. It only checks that requests are signed for
// the expected application and consumer.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	nextID    int64
	zones     map[string]map[int64]*Record
	refreshes map[string]int
	calls     []string
}

// NewServer starts a fake managing the given zones.
func NewServer(zones ...string) *Server {
	s := &Server{
		nextID:    1000,
		zones:     map[string]map[int64]*Record{},
		refreshes: map[string]int{},
	}
	for _, z := range zones {
		s.zones[z] = map[int64]*Record{}
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// AddRecord stores a record and returns its id.
func (s *Server) AddRecord(zone, subDomain, fieldType, target string, ttl int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.zones[zone][s.nextID] = &Record{ID: s.nextID, Zone: zone, SubDomain: subDomain, FieldType: fieldType, Target: target, TTL: ttl}
	return s.nextID
}

// Records returns the zone's records sorted by id.
func (s *Server) Records(zone string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, 0, len(s.zones[zone]))
	for _, r := range s.zones[zone] {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Refreshes counts refresh calls for zone.
func (s *Server) Refreshes(zone string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshes[zone]
}

// Calls returns "METHOD path" for every signed call.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/auth/time" {
		writeJSON(w, http.StatusOK, time.Now().Unix())
		return
	}
	if r.Header.Get("X-Ovh-Application") != AppKey || r.Header.Get("X-Ovh-Consumer") != ConsumerKey || r.Header.Get("X-Ovh-Signature") == "" {
		writeError(w, http.StatusForbidden, "This call has not been granted")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, r.Method+" "+r.URL.Path)

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "domain" || parts[1] != "zone" {
		writeError(w, http.StatusNotFound, "Got an invalid (or empty) URL")
		return
	}
	if len(parts) == 2 && r.Method == http.MethodGet {
		names := make([]string, 0, len(s.zones))
		for z := range s.zones {
			names = append(names, z)
		}
		sort.Strings(names)
		writeJSON(w, http.StatusOK, names)
		return
	}

	records, ok := s.zones[parts[2]]
	if !ok {
		writeError(w, http.StatusNotFound, "This service does not exist")
		return
	}
	zone := parts[2]

	switch {
	case len(parts) == 4 && parts[3] == "refresh" && r.Method == http.MethodPost:
		s.refreshes[zone]++
		writeJSON(w, http.StatusOK, nil)
	case len(parts) == 4 && parts[3] == "record":
		s.handleRecords(w, r, zone, records)
	case len(parts) == 5 && parts[3] == "record":
		id, err := strconv.ParseInt(parts[4], 10, 64)
		record, found := records[id]
		if err != nil || !found {
			writeError(w, http.StatusNotFound, "This service does not exist")
			return
		}
		s.handleRecord(w, r, records, record)
	default:
		writeError(w, http.StatusNotFound, "Got an invalid (or empty) URL")
	}
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request, zone string, records map[int64]*Record) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		ids := []int64{}
		for id, rec := range records {
			if t := q.Get("fieldType"); t != "" && t != rec.FieldType {
				continue
			}
			if q.Has("subDomain") && q.Get("subDomain") != rec.SubDomain {
				continue
			}
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		writeJSON(w, http.StatusOK, ids)
	case http.MethodPost:
		var rec Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.nextID++
		rec.ID, rec.Zone = s.nextID, zone
		records[rec.ID] = &rec
		writeJSON(w, http.StatusOK, rec)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request, records map[int64]*Record, record *Record) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, record)
	case http.MethodPut:
		var update Record
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		record.SubDomain, record.Target, record.TTL = update.SubDomain, update.Target, update.TTL
		writeJSON(w, http.StatusOK, nil)
	case http.MethodDelete:
		delete(records, record.ID)
		writeJSON(w, http.StatusOK, nil)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"class": "Client::Error", "message": msg})
}
