// Package render turns parsed script sections into responsive HTML emails.
// Templates are MJML markup processed through Go's template engine, then
// compiled to inline-styled HTML so the output needs no external stylesheet.
package render

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/preslavrachev/gomjml/mjml"
)

// Renderer handles template loading, caching, and rendering.
type Renderer struct {
	templates map[string]*template.Template
	cache     map[string]string // rendered HTML keyed by template+data hash
	mu        sync.RWMutex
	options   *Options
}

// Options configures the renderer behavior.
type Options struct {
	EnableCache bool   // cache rendered HTML for repeated identical sends
	EnableDebug bool   // add debug attributes to generated HTML
	TemplateDir string // optional directory of .mjml overrides
}

// Option configures the renderer.
type Option func(*Options)

// WithCache enables HTML output caching.
func WithCache(enabled bool) Option {
	return func(opts *Options) {
		opts.EnableCache = enabled
	}
}

// WithDebug adds debug attributes to generated HTML.
func WithDebug(enabled bool) Option {
	return func(opts *Options) {
		opts.EnableDebug = enabled
	}
}

// WithTemplateDir sets a directory whose .mjml files override the embedded
// defaults.
func WithTemplateDir(dir string) Option {
	return func(opts *Options) {
		opts.TemplateDir = dir
	}
}

// NewRenderer creates a renderer with the embedded default templates loaded.
func NewRenderer(opts ...Option) (*Renderer, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	r := &Renderer{
		templates: make(map[string]*template.Template),
		cache:     make(map[string]string),
		options:   options,
	}

	if err := r.loadEmbedded(); err != nil {
		return nil, err
	}
	if options.TemplateDir != "" {
		if err := r.LoadTemplatesFromDir(options.TemplateDir); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// LoadTemplate parses and registers a single MJML template.
func (r *Renderer) LoadTemplate(name, content string) error {
	tmpl, err := template.New(name).Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.templates[name] = tmpl
	if r.options.EnableCache {
		for key := range r.cache {
			if strings.HasPrefix(key, name+"_") {
				delete(r.cache, key)
			}
		}
	}
	return nil
}

// LoadTemplatesFromDir loads all .mjml files from a directory, using the file
// name without extension as the template name.
func (r *Renderer) LoadTemplatesFromDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".mjml") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		name := strings.TrimSuffix(filepath.Base(path), ".mjml")
		return r.LoadTemplate(name, string(content))
	})
}

// RenderTemplate renders a named template with the given data to HTML.
func (r *Renderer) RenderTemplate(name string, data any) (string, error) {
	r.mu.RLock()
	tmpl, exists := r.templates[name]
	r.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("template %s not found", name)
	}

	cacheKey, err := r.createCacheKey(name, data)
	if err != nil {
		return "", fmt.Errorf("failed to create cache key for template %s: %w", name, err)
	}

	if r.options.EnableCache {
		r.mu.RLock()
		if cached, found := r.cache[cacheKey]; found {
			r.mu.RUnlock()
			return cached, nil
		}
		r.mu.RUnlock()
	}

	var mjmlBuf bytes.Buffer
	if err := tmpl.Execute(&mjmlBuf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	html, err := r.renderMJML(mjmlBuf.String())
	if err != nil {
		return "", fmt.Errorf("failed to render MJML for template %s: %w", name, err)
	}

	if r.options.EnableCache {
		r.mu.Lock()
		r.cache[cacheKey] = html
		r.mu.Unlock()
	}

	return html, nil
}

// RenderString renders MJML content directly to HTML.
func (r *Renderer) RenderString(mjmlContent string) (string, error) {
	return r.renderMJML(mjmlContent)
}

func (r *Renderer) renderMJML(mjmlContent string) (string, error) {
	var mjmlOpts []mjml.RenderOption
	if r.options.EnableDebug {
		mjmlOpts = append(mjmlOpts, mjml.WithDebugTags(true))
	}
	if r.options.EnableCache {
		mjmlOpts = append(mjmlOpts, mjml.WithCache())
	}

	html, err := mjml.Render(mjmlContent, mjmlOpts...)
	if err != nil {
		return "", fmt.Errorf("gomjml render failed: %w", err)
	}
	return html, nil
}

// ListTemplates returns the loaded template names.
func (r *Renderer) ListTemplates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}

// HasTemplate checks whether a template is loaded.
func (r *Renderer) HasTemplate(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.templates[name]
	return exists
}

// ClearCache drops all cached rendered HTML.
func (r *Renderer) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]string)
}

// createCacheKey builds a deterministic key from the template name and the
// JSON serialization of the data.
func (r *Renderer) createCacheKey(name string, data any) (string, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to serialize data for caching: %w", err)
	}

	hasher := sha256.New()
	hasher.Write([]byte(name))
	hasher.Write(dataBytes)
	hash := fmt.Sprintf("%x", hasher.Sum(nil))

	return fmt.Sprintf("%s_%s", name, hash[:16]), nil
}
