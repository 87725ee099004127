package template

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/modu-ai/settingsgen/internal/defs"
	"github.com/modu-ai/settingsgen/pkg/models"
)

// mapEnv returns an EnvLookup backed by env. The map is read on every call,
// so tests can mutate it between renders.
func mapEnv(env map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestRendererRender(t *testing.T) {
	t.Run("successful_render", func(t *testing.T) {
		fs := fstest.MapFS{
			"settings.tmpl": &fstest.MapFile{
				Data: []byte("db={{.Name}} port={{.Port}}\n"),
			},
		}
		r := NewRenderer(fs)

		result, err := r.Render("settings.tmpl", map[string]string{"Name": "db", "Port": "3306"})
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if want := "db=db port=3306\n"; string(result) != want {
			t.Errorf("Render result = %q, want %q", result, want)
		}
	})

	t.Run("missing_map_key_names_field", func(t *testing.T) {
		fs := fstest.MapFS{
			"test.tmpl": &fstest.MapFile{
				Data: []byte("user={{.User}} password={{.Password}}"),
			},
		}
		r := NewRenderer(fs)

		_, err := r.Render("test.tmpl", map[string]string{"User": "db"})
		if !errors.Is(err, ErrMissingField) {
			t.Fatalf("expected ErrMissingField, got: %v", err)
		}
		var mfe *MissingFieldError
		if !errors.As(err, &mfe) {
			t.Fatalf("expected *MissingFieldError, got %T", err)
		}
		if mfe.Field != "Password" {
			t.Errorf("Field = %q, want %q", mfe.Field, "Password")
		}
		if mfe.Template != "test.tmpl" {
			t.Errorf("Template = %q, want %q", mfe.Template, "test.tmpl")
		}
	})

	t.Run("missing_struct_field_names_field", func(t *testing.T) {
		fs := fstest.MapFS{
			"test.tmpl": &fstest.MapFile{
				Data: []byte("host={{.DatabaseHost}} socket={{.DatabaseSocket}}"),
			},
		}
		r := NewRenderer(fs)

		tc := NewTemplateContext(&models.ProjectConfig{DatabaseHost: "db"})
		_, err := r.Render("test.tmpl", tc)
		var mfe *MissingFieldError
		if !errors.As(err, &mfe) {
			t.Fatalf("expected *MissingFieldError, got: %v", err)
		}
		if mfe.Field != "DatabaseSocket" {
			t.Errorf("Field = %q, want %q", mfe.Field, "DatabaseSocket")
		}
	})

	t.Run("nonexistent_template", func(t *testing.T) {
		r := NewRenderer(fstest.MapFS{})

		_, err := r.Render("nonexistent.tmpl", nil)
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("expected ErrTemplateNotFound, got: %v", err)
		}
	})

	t.Run("nil_filesystem", func(t *testing.T) {
		r := NewRenderer(nil)

		_, err := r.Render("any.tmpl", nil)
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("expected ErrTemplateNotFound, got: %v", err)
		}
	})

	t.Run("unexpanded_token_in_value", func(t *testing.T) {
		fs := fstest.MapFS{
			"test.tmpl": &fstest.MapFile{Data: []byte("name: {{.Name}}")},
		}
		r := NewRenderer(fs)

		_, err := r.Render("test.tmpl", map[string]string{"Name": "{{.Leak}}"})
		if !errors.Is(err, ErrUnexpandedToken) {
			t.Errorf("expected ErrUnexpandedToken, got: %v", err)
		}
	})

	t.Run("php_superglobals_are_not_tokens", func(t *testing.T) {
		fs := fstest.MapFS{
			"test.tmpl": &fstest.MapFile{Data: []byte("$_SERVER['HTTP_HOST'] = '{{.Host}}';")},
		}
		r := NewRenderer(fs)

		if _, err := r.Render("test.tmpl", map[string]string{"Host": "x.ddev.site"}); err != nil {
			t.Errorf("Render error: %v", err)
		}
	})

	t.Run("parse_error", func(t *testing.T) {
		fs := fstest.MapFS{
			"bad.tmpl": &fstest.MapFile{Data: []byte("{{if}}")},
		}
		r := NewRenderer(fs)

		_, err := r.Render("bad.tmpl", nil)
		if err == nil {
			t.Fatal("expected parse error")
		}
		if errors.Is(err, ErrMissingField) {
			t.Errorf("parse error should not be ErrMissingField: %v", err)
		}
	})
}

func TestRendererHostSide(t *testing.T) {
	fs := fstest.MapFS{
		"host.tmpl": &fstest.MapFile{
			Data: []byte("{{ if hostSide }}{{ .HostSideHost }}:{{ .HostSidePort }}{{ else }}{{ .DatabaseHost }}:{{ .DatabasePort }}{{ end }}"),
		},
	}
	env := map[string]string{}
	r := NewRenderer(fs, WithEnv(mapEnv(env)))
	tc := NewTemplateContext(&models.ProjectConfig{
		DatabaseHost:    "db",
		DatabasePort:    3306,
		DockerIP:        "192.168.5.2",
		DBPublishedPort: 32768,
	})

	tests := []struct {
		name       string
		phpVersion string
		isProject  string
		want       string
	}{
		{"not_a_project", "", "", "db:3306"},
		{"in_container", "8.3", "true", "db:3306"},
		{"on_host", "", "true", "192.168.5.2:32768"},
		{"back_in_container", "8.3", "true", "db:3306"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env[defs.EnvPHPVersion] = tt.phpVersion
			env[defs.EnvIsProject] = tt.isProject

			got, err := r.Render("host.tmpl", tc)
			if err != nil {
				t.Fatalf("Render error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRendererFuncs(t *testing.T) {
	env := map[string]string{"DDEV_SITENAME": "demo"}
	r := NewRenderer(nil, WithEnv(mapEnv(env)))

	tests := []struct {
		name string
		body string
		want string
	}{
		{"env_uses_injected_lookup", `{{ env "DDEV_SITENAME" }}`, "demo"},
		{"env_missing_is_empty", `[{{ env "NOPE" }}]`, "[]"},
		{"envOr_fallback", `{{ envOr "NOPE" "fallback" }}`, "fallback"},
		{"envOr_present", `{{ envOr "DDEV_SITENAME" "fallback" }}`, "demo"},
		{"phpString_escapes", `'{{ phpString "it's a \\ path" }}'`, `'it\'s a \\ path'`},
		{"expandenv_uses_injected_lookup", `{{ expandenv "site=$DDEV_SITENAME" }}`, "site=demo"},
		{"dotenvString_quotes", `{{ dotenvString "a\"b$c" }}`, `"a\"b\$c"`},
		{"xmlCData_wraps", `{{ xmlCData "x]]>y" }}`, `<![CDATA[x]]]]><![CDATA[>y]]>`},
		{"signature", `// {{ signature }}`, "// " + defs.Signature},
		{"sprig_available", `{{ "drupal" | upper }}`, "DRUPAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.RenderString(tt.name, tt.body, nil)
			if err != nil {
				t.Fatalf("RenderString error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("RenderString = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPHPString(t *testing.T) {
	if got := phpString(`a'b\c`); got != `a\'b\\c` {
		t.Errorf("phpString = %q", got)
	}
	if got := phpString("plain"); !strings.EqualFold(got, "plain") {
		t.Errorf("phpString(plain) = %q", got)
	}
}

func TestDotenvString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"db", `"db"`},
		{`it's$ecret"x`, `"it's\$ecret\"x"`},
		{`back\slash`, `"back\\slash"`},
		{"two\nlines", `"two\nlines"`},
	}
	for _, tt := range tests {
		if got := dotenvString(tt.in); got != tt.want {
			t.Errorf("dotenvString(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
