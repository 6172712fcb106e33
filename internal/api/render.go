package api

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Kerhoff/tripplanner/internal/models"
	"github.com/Kerhoff/tripplanner/internal/repository"
	"github.com/Kerhoff/tripplanner/internal/validation"
	"github.com/dustin/go-humanize"
)

// page is the data every template receives.
type page struct {
	Trip       *models.Trip
	Flash      []string
	MapsAPIKey string
	Form       any
	Errors     map[string]string
	Data       any
}

const msgNotFound = "ページが見つかりません。"

type errorPage struct {
	Status  int
	Message string
}

var templateFuncs = template.FuncMap{
	"since": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return humanize.Time(t)
	},
	"str": func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	},
	"float": func(p *float64) string {
		if p == nil {
			return ""
		}
		return strconv.FormatFloat(*p, 'f', -1, 64)
	},
	"count": func(p *int) string {
		if p == nil {
			return ""
		}
		return strconv.Itoa(*p)
	},
	"comma": func(p *int) string {
		if p == nil {
			return ""
		}
		return humanize.Comma(int64(*p))
	},
	"categories": func() []string {
		return models.PlaceCategories
	},
}

// parseTemplates builds one template set per page, each sharing layout.html.
func parseTemplates(files fs.FS) (map[string]*template.Template, error) {
	base, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(files, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	names, err := fs.Glob(files, "*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		if name == "layout.html" {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.ParseFS(files, name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		pages[strings.TrimSuffix(name, ".html")] = t
	}
	return pages, nil
}

// render executes a page into a buffer first so a template error never
// leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	t, ok := s.pages[name]
	if !ok {
		s.logger.WithField("page", name).Error("unknown page template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.Flash = append(s.popFlash(w, r), p.Flash...)
	p.MapsAPIKey = s.mapsKey

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		s.logger.WithError(err).WithField("page", name).Error("failed to execute template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.WithError(err).Debug("failed to write response")
	}
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.render(w, r, status, "error", page{Data: errorPage{Status: status, Message: message}})
}

// fail maps a service error to a response. Validation errors are handled by
// the caller, which re-renders its form.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, action string) {
	if errors.Is(err, repository.ErrNotFound) {
		s.renderStatus(w, r, http.StatusNotFound, msgNotFound)
		return
	}
	s.logger.WithError(err).Error("failed to " + action)
	s.renderStatus(w, r, http.StatusInternalServerError, "エラーが発生しました。時間をおいて再度お試しください。")
}

// formErrors extracts per-field messages from a validation error.
func formErrors(err error) (map[string]string, bool) {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return nil, false
	}
	return verr.Fields, true
}

// redirect sends the browser to location after a successful write, carrying
// any warnings along as a flash.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, location string, warnings []string) {
	s.setFlash(w, warnings)
	http.Redirect(w, r, location, http.StatusSeeOther)
}
