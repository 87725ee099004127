package template

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"text/template"
)

// unexpandedTokenPattern detects leftover template actions in rendered output.
var unexpandedTokenPattern = regexp.MustCompile(`\{\{-?\s*\.?[A-Za-z_][A-Za-z0-9_.]*\s*-?\}\}`)

// execFieldPatterns extract the offending field name from text/template
// execution errors for struct data and map data respectively.
var execFieldPatterns = []*regexp.Regexp{
	regexp.MustCompile(`can't evaluate field (\w+)`),
	regexp.MustCompile(`map has no entry for key "([^"]+)"`),
}

// EnvLookup resolves an environment variable. It has the signature of os.LookupEnv.
type EnvLookup func(key string) (string, bool)

// Renderer renders Go text/template files with strict mode enabled.
type Renderer interface {
	// Render parses the named template from the filesystem and executes it
	// with data. Returns a *MissingFieldError if a field is undefined and
	// ErrUnexpandedToken if tokens remain after rendering.
	Render(templateName string, data any) ([]byte, error)

	// RenderString renders an inline template body under the given name.
	RenderString(name, body string, data any) ([]byte, error)
}

// RendererOption configures a renderer.
type RendererOption func(*renderer)

// WithEnv replaces the environment lookup used by template functions.
func WithEnv(lookup EnvLookup) RendererOption {
	return func(r *renderer) {
		if lookup != nil {
			r.lookupEnv = lookup
		}
	}
}

// renderer is the concrete implementation of Renderer.
type renderer struct {
	fsys      fs.FS
	lookupEnv EnvLookup
}

// NewRenderer creates a Renderer backed by the given filesystem.
func NewRenderer(fsys fs.FS, opts ...RendererOption) Renderer {
	r := &renderer{fsys: fsys, lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render parses and executes a template with strict mode (missingkey=error).
func (r *renderer) Render(templateName string, data any) ([]byte, error) {
	if r.fsys == nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}
	content, err := fs.ReadFile(r.fsys, templateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}
	return r.RenderString(templateName, string(content), data)
}

// RenderString renders body as a template named name.
func (r *renderer) RenderString(name, body string, data any) ([]byte, error) {
	// The function map is rebuilt per call so environment-dependent
	// functions observe the environment at render time.
	tmpl, err := template.New(name).
		Funcs(r.funcMap()).
		Option("missingkey=error").
		Parse(body)
	if err != nil {
		return nil, fmt.Errorf("template parse %q: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		if field := missingFieldName(err); field != "" {
			return nil, &MissingFieldError{Template: name, Field: field, Err: err}
		}
		return nil, fmt.Errorf("template execute %q: %w", name, err)
	}

	result := buf.Bytes()
	if loc := unexpandedTokenPattern.Find(result); loc != nil {
		return nil, fmt.Errorf("%w: found %q in %s", ErrUnexpandedToken, string(loc), name)
	}
	return result, nil
}

// missingFieldName returns the field named by a text/template execution
// error, or "" if the error is not about a missing field.
func missingFieldName(err error) string {
	msg := err.Error()
	for _, re := range execFieldPatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			return m[1]
		}
	}
	return ""
}
