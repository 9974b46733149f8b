package mail

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// ErrUnknownTemplate is returned for a template name with no file.
var ErrUnknownTemplate = errors.New("unknown mail template")

// Renderer executes the embedded HTML templates.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every embedded template.
func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{templates: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		name := strings.TrimSuffix(strings.TrimPrefix(f, "templates/"), ".html")
		tmpl, err := template.New(name).Option("missingkey=zero").ParseFS(templateFS, f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		r.templates[name] = tmpl.Lookup(strings.TrimPrefix(f, "templates/"))
	}
	return r, nil
}

// Render returns the HTML body for name.
func (r *Renderer) Render(name string, data map[string]any) (string, error) {
	tmpl, ok := r.templates[strings.TrimSuffix(name, ".html")]
	if !ok || tmpl == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
