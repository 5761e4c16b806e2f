// Package handler contains the HTTP handlers: JSON endpoints under /api
// and server-rendered pages.
//
// Handlers parse the request, call a service and write the response. They
// depend on small interfaces declared next to them, so tests substitute
// fakes without a database.
package handler

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/sakif/devoverflow/internal/auth"
	"github.com/sakif/devoverflow/internal/service"
	"github.com/sakif/devoverflow/internal/ui"
)

// SidebarLoader provides the sidebar shown on every page.
type SidebarLoader interface {
	Load(ctx context.Context) (*service.Sidebar, error)
}

// pageData is what every page template receives. Page holds the data
// specific to one page.
type pageData struct {
	Title    string
	Identity string
	Sidebar  *service.Sidebar
	Page     any
}

// formField feeds the "field" partial of form pages.
type formField struct {
	Name  string
	Label string
	Value string
	Error string
}

// Renderer executes page templates inside the shared layout.
//
// Templates are parsed once at startup. Each page gets its own template
// set (layout/*.html plus its pages/<name>.html) because every page
// defines the same "content" block.
type Renderer struct {
	pages   map[string]*template.Template
	sidebar SidebarLoader
	logger  *slog.Logger
}

// NewRenderer parses the templates in fsys.
func NewRenderer(fsys fs.FS, sidebar SidebarLoader, logger *slog.Logger) (*Renderer, error) {
	layouts, err := fs.Glob(fsys, "layout/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing layout templates: %w", err)
	}
	pageFiles, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing page templates: %w", err)
	}
	if len(layouts) == 0 || len(pageFiles) == 0 {
		return nil, fmt.Errorf("no templates found")
	}

	funcs := ui.FuncMap()
	// Stored content was sanitized when it was written.
	funcs["sanitized"] = func(s string) template.HTML { return template.HTML(s) }
	funcs["field"] = func(name, label, value string, errs map[string]string) formField {
		return formField{Name: name, Label: label, Value: value, Error: errs[name]}
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		name := strings.TrimSuffix(path.Base(file), ".html")
		files := append(append([]string{}, layouts...), file)
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parsing page %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{
		pages:   pages,
		sidebar: sidebar,
		logger:  logger,
	}, nil
}

// render loads the sidebar and writes the named page. The page is
// rendered into a buffer first so a template failure still produces a
// clean 500.
func (rd *Renderer) render(w http.ResponseWriter, r *http.Request, status int, name, title string, page any) {
	ctx := r.Context()

	tmpl, ok := rd.pages[name]
	if !ok {
		rd.logger.ErrorContext(ctx, "unknown page template", slog.String("page", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sidebar, err := rd.sidebar.Load(ctx)
	if err != nil {
		rd.logger.ErrorContext(ctx, "failed to load sidebar", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	clerkID, _ := auth.IdentityFromContext(ctx)
	data := pageData{
		Title:    title,
		Identity: clerkID,
		Sidebar:  sidebar,
		Page:     page,
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		rd.logger.ErrorContext(ctx, "failed to render template",
			slog.String("page", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		rd.logger.WarnContext(ctx, "failed to write page", slog.String("error", err.Error()))
	}
}

// renderError answers a page request that failed with err.
func (rd *Renderer) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := statusFor(err)
	if status == http.StatusInternalServerError {
		rd.logger.ErrorContext(r.Context(), "page request failed", slog.String("error", err.Error()))
	}
	http.Error(w, http.StatusText(status), status)
}
