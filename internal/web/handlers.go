// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/datapacket/pkg/types"
)

// Form fields copied into DataSource.Metadata when present.
var metadataFields = []string{"contact_person", "data_owner", "file_size"}

type indexPage struct {
	Flash       *flashMessage
	SourceCount int
	Today       string
	SourceTypes []types.SourceType
	Statuses    []types.SourceStatus
}

type sourcesPage struct {
	Sources []types.DataSource
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	n, err := s.sources.Count(r.Context())
	if err != nil {
		s.serverError(w, "counting sources", err)
		return
	}
	page := indexPage{
		Flash:       s.flash.pop(w, r),
		SourceCount: n,
		Today:       s.now().Format("2006-01-02"),
		SourceTypes: types.SourceTypes,
		Statuses:    types.SourceStatuses,
	}
	s.render(w, "index", page)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	src, err := s.sourceFromForm(r)
	if err == nil {
		src, err = s.sources.Add(r.Context(), src)
	}
	msg := flashMessage{Kind: "success", Text: fmt.Sprintf("Data source '%s' added successfully!", src.Name)}
	if err != nil {
		s.log.Warn("adding data source failed", zap.Error(err))
		msg = flashMessage{Kind: "error", Text: fmt.Sprintf("Error adding data source: %v", err)}
	} else {
		s.log.Info("data source added", zap.String("name", src.Name), zap.Int64("id", src.ID))
	}
	if err := s.flash.set(w, msg); err != nil {
		s.log.Error("encoding flash message", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// sourceFromForm builds a DataSource from the add form. Field validation
// beyond parsing is left to the store.
func (s *Server) sourceFromForm(r *http.Request) (types.DataSource, error) {
	if err := r.ParseForm(); err != nil {
		return types.DataSource{}, fmt.Errorf("parsing form: %w", err)
	}
	field := func(name string) string { return strings.TrimSpace(r.PostForm.Get(name)) }

	src := types.DataSource{
		Name:       field("name"),
		SourceType: types.SourceType(field("source_type")),
		FilePath:   field("file_path"),
		Status:     types.SourceStatus(field("status")),
		Notes:      field("notes"),
		DatePulled: s.now(),
	}

	if v := field("collection_date"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return src, fmt.Errorf("collection date %q is not YYYY-MM-DD", v)
		}
		src.DatePulled = t
	}

	if v := field("record_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return src, fmt.Errorf("record count %q is not a number", v)
		}
		src.RecordCount = &n
	}

	for _, name := range metadataFields {
		if v := field(name); v != "" {
			if src.Metadata == nil {
				src.Metadata = make(map[string]string)
			}
			src.Metadata[name] = v
		}
	}
	return src, nil
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	list, err := s.sources.List(r.Context())
	if err != nil {
		s.serverError(w, "listing sources", err)
		return
	}
	s.render(w, "sources", sourcesPage{Sources: list})
}

func (s *Server) handleAPISources(w http.ResponseWriter, r *http.Request) {
	list, err := s.sources.List(r.Context())
	if err != nil {
		s.log.Error("listing sources", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to list sources"})
		return
	}
	if list == nil {
		list = []types.DataSource{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("rendering template", zap.String("template", name), zap.Error(err))
	}
}

func (s *Server) serverError(w http.ResponseWriter, doing string, err error) {
	s.log.Error(doing, zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
