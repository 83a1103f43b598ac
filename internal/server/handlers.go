package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lepinkainen/sanad/internal/cache"
	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/pagination"
	"github.com/lepinkainen/sanad/internal/resolver"
)

type dataEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorEnvelope{Error: msg, Code: code})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	var stats cache.Stats
	if s.cache != nil {
		stats = s.cache.Stats()
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "cache": stats})
}

func (s *Server) collections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dataEnvelope{Data: s.resolver.Collections(r.Context())})
}

func (s *Server) books(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	writeJSON(w, http.StatusOK, dataEnvelope{Data: s.resolver.Books(r.Context(), id)})
}

func (s *Server) hadiths(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list := resolver.ListQuery{
		CollectionID: chi.URLParam(r, "id"),
		Page:         pagination.ParseInt(q.Get("page"), pagination.DefaultPage),
		Limit:        pagination.ParseInt(q.Get("limit"), pagination.DefaultLimit),
	}

	if raw := strings.TrimSpace(q.Get("book")); raw != "" {
		book, err := strconv.Atoi(raw)
		if err != nil || book < 1 {
			writeError(w, http.StatusBadRequest, "invalid_book", fmt.Sprintf("book must be a positive integer, got %q", raw))
			return
		}
		list.Book = &book
	}
	if raw := strings.TrimSpace(q.Get("grade")); raw != "" {
		grade, ok := hadith.ParseGrade(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_grade", fmt.Sprintf("unknown grade %q", raw))
			return
		}
		list.Grade = &grade
	}

	writeJSON(w, http.StatusOK, s.resolver.Hadiths(r.Context(), list))
}

func (s *Server) hadith(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	raw := chi.URLParam(r, "number")
	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		writeError(w, http.StatusBadRequest, "invalid_number", fmt.Sprintf("narration number must be a positive integer, got %q", raw))
		return
	}

	h := s.resolver.Hadith(r.Context(), id, number)
	if h == nil {
		writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("%s %d not found", id, number))
		return
	}
	writeJSON(w, http.StatusOK, dataEnvelope{Data: h})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing_query", "query parameter q is required")
		return
	}

	writeJSON(w, http.StatusOK, s.resolver.Search(r.Context(), resolver.SearchQuery{
		Query:        query,
		CollectionID: q.Get("collection"),
		Page:         pagination.ParseInt(q.Get("page"), pagination.DefaultPage),
		Limit:        pagination.ParseInt(q.Get("limit"), pagination.DefaultLimit),
	}))
}
