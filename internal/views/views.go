// Package views renders the embedded HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/crucial707/student-records/internal/auth"
	"github.com/crucial707/student-records/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page names.
const (
	Login    = "login.html"
	Register = "register.html"
	Index    = "index.html"
	Edit     = "edit.html"
	Audit    = "audit.html"
	Error    = "error.html"
)

var pages = []string{Login, Register, Index, Edit, Audit, Error}

// StudentForm holds submitted values so a rejected form is re-rendered as typed.
type StudentForm struct {
	Name  string
	Age   string
	Grade string
}

// Data is what every page receives. Pages read only the fields they need.
type Data struct {
	Title    string
	User     *models.User
	Flashes  []auth.Flash
	Students []models.Student
	Student  models.Student
	Form     StudentForm
	Audit    []models.AuditEntry
	Limit    int
	Offset   int
	Username string
	Error    string
	Status   int
}

// Renderer holds templates parsed once at startup, each page combined with the layout.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses the layout and every page. It fails if any template is malformed.
func New() (*Renderer, error) {
	funcs := template.FuncMap{
		"statusText": http.StatusText,
		"add":        func(a, b int) int { return a + b },
		"sub":        func(a, b int) int { return a - b },
	}
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// MustNew is New for package-level setup and tests.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes page into a buffer first so a template error never leaves
// a half-written response. status 0 means 200.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data Data) {
	t, ok := r.templates[name]
	if !ok {
		slog.Error("template not found", "template", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("template execute", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RenderError renders the error page with status and its standard text.
func (r *Renderer) RenderError(w http.ResponseWriter, status int, data Data) {
	data.Status = status
	if data.Title == "" {
		data.Title = http.StatusText(status)
	}
	r.Render(w, status, Error, data)
}
