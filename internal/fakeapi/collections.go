package fakeapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Seed stores a copy of doc in coll, assigning an _id when it has none, and
// returns the stored copy.
func (s *Server) Seed(coll string, doc Doc) Doc {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(coll, doc)
}

// Docs returns a copy of coll.
func (s *Server) Docs(coll string) []Doc {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Doc, 0, len(s.colls[coll]))
	for _, d := range s.colls[coll] {
		out = append(out, clone(d))
	}
	return out
}

func (s *Server) insert(coll string, doc Doc) Doc {
	stored := clone(doc)
	if str(stored["_id"]) == "" {
		stored["_id"] = uuid.NewString()
	}
	s.colls[coll] = append(s.colls[coll], stored)
	return clone(stored)
}

func (s *Server) find(coll, id string) (int, Doc) {
	for i, d := range s.colls[coll] {
		if str(d["_id"]) == id {
			return i, d
		}
	}
	return -1, nil
}

func (s *Server) filter(coll string, keep func(Doc) bool) []Doc {
	out := []Doc{}
	for _, d := range s.colls[coll] {
		if keep(d) {
			out = append(out, clone(d))
		}
	}
	return out
}

func (s *Server) list(coll string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		out := s.filter(coll, func(Doc) bool { return true })
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) listPopulated(coll string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		out := s.populate(s.filter(coll, func(Doc) bool { return true }))
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, out)
	}
}

// create answers with the bare record, or {message, <key>: record} when key is set.
func (s *Server) create(coll, key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := decode(r)
		delete(body, "_id")
		if name, ok := body["name"]; ok && str(name) == "" {
			writeJSON(w, http.StatusBadRequest, Doc{"message": "Name is required"})
			return
		}
		s.mu.Lock()
		doc := s.insert(coll, body)
		s.mu.Unlock()
		writeJSON(w, http.StatusCreated, wrap(key, "Created successfully", doc))
	}
}

func (s *Server) update(coll, key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		body := decode(r)
		delete(body, "_id")
		s.mu.Lock()
		i, doc := s.find(coll, id)
		if i < 0 {
			s.mu.Unlock()
			writeJSON(w, http.StatusNotFound, Doc{"message": "Not found"})
			return
		}
		for k, v := range body {
			doc[k] = v
		}
		out := clone(doc)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, wrap(key, "Updated successfully", out))
	}
}

func (s *Server) remove(coll string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s.mu.Lock()
		i, _ := s.find(coll, id)
		if i >= 0 {
			s.colls[coll] = append(s.colls[coll][:i:i], s.colls[coll][i+1:]...)
		}
		s.mu.Unlock()
		if i < 0 {
			writeJSON(w, http.StatusNotFound, Doc{"message": "Not found"})
			return
		}
		writeJSON(w, http.StatusOK, Doc{"message": "Deleted successfully"})
	}
}

// populate replaces employee ids with {_id,name,email,department}.
func (s *Server) populate(docs []Doc) []Doc {
	for _, d := range docs {
		id := str(d["employee"])
		if id == "" {
			continue
		}
		if _, emp := s.find(CollEmployees, id); emp != nil {
			d["employee"] = Doc{
				"_id":        emp["_id"],
				"name":       emp["name"],
				"email":      emp["email"],
				"department": emp["department"],
			}
		}
	}
	return docs
}

func wrap(key, message string, doc Doc) any {
	if key == "" {
		return doc
	}
	return Doc{"message": message, key: doc}
}

func clone(d Doc) Doc {
	out := make(Doc, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case map[string]any:
		return str(t["_id"])
	default:
		return fmt.Sprint(t)
	}
}

func num(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		var f float64
		_, _ = fmt.Sscanf(t, "%g", &f)
		return f
	}
	return 0
}

func sortDocs(docs []Doc, field string) {
	sort.SliceStable(docs, func(i, j int) bool { return str(docs[i][field]) < str(docs[j][field]) })
}

func readCloser(b []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(b))
}
