package template

import (
	"bytes"
	"io"
	"os"
	"text/template"

	"github.com/directord/a2dd/internal/errors"
)

// Engine handles report template loading and rendering.
type Engine struct {
	templates map[string]*template.Template
}

// New creates a new template engine.
func New() *Engine {
	return &Engine{
		templates: make(map[string]*template.Template),
	}
}

// LoadFile loads a template from a file path, replacing any template
// already registered under name.
func (e *Engine) LoadFile(name, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "reading template file %s", path)
	}

	return e.LoadString(name, string(content))
}

// LoadString loads a template from a string.
func (e *Engine) LoadString(name, content string) error {
	tmpl, err := template.New(name).Funcs(FuncMap()).Parse(content)
	if err != nil {
		return errors.Wrapf(err, errors.ErrParse, "parsing template %s", name)
	}

	e.templates[name] = tmpl
	return nil
}

// MustLoad is LoadString for built-in templates. It panics on a parse error.
func (e *Engine) MustLoad(name, content string) *Engine {
	if err := e.LoadString(name, content); err != nil {
		panic(err)
	}
	return e
}

// Has reports whether a template is registered under name.
func (e *Engine) Has(name string) bool {
	_, ok := e.templates[name]
	return ok
}

// Execute renders the named template to w.
func (e *Engine) Execute(w io.Writer, name string, data any) error {
	tmpl, ok := e.templates[name]
	if !ok {
		return errors.Newf(errors.ErrInternal, "template %q not found", name)
	}

	if err := tmpl.Execute(w, data); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "executing template %s", name)
	}
	return nil
}

// Render renders the named template to a string.
func (e *Engine) Render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.Execute(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
