package template

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Engine renders text templates with the sprig function library. Compiled
// templates are cached by their source text.
type Engine struct {
	mu    sync.Mutex
	funcs template.FuncMap
	cache map[string]*template.Template
}

// New creates a new template engine
func New() *Engine {
	return &Engine{
		funcs: sprig.TxtFuncMap(),
		cache: make(map[string]*template.Template),
	}
}

// Compile parses text, reusing a previously compiled template when possible.
func (e *Engine) Compile(text string) (*template.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[text]; ok {
		return tmpl, nil
	}
	tmpl, err := template.New("testtrail").Funcs(e.funcs).Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %q: %w", text, err)
	}
	e.cache[text] = tmpl
	return tmpl, nil
}

// Render executes text against data.
func (e *Engine) Render(text string, data interface{}) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	tmpl, err := e.Compile(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", text, err)
	}
	return buf.String(), nil
}
