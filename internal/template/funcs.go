package template

import (
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/modu-ai/settingsgen/internal/defs"
)

// funcMap returns sprig's text functions plus settings-specific helpers.
// Environment helpers close over the renderer's lookup and read it on every
// call.
func (r *renderer) funcMap() template.FuncMap {
	fm := sprig.TxtFuncMap()

	// Shadow sprig's env/expandenv so they go through the injected lookup.
	fm["env"] = func(key string) string {
		v, _ := r.lookupEnv(key)
		return v
	}
	fm["expandenv"] = func(s string) string {
		return os.Expand(s, func(key string) string {
			v, _ := r.lookupEnv(key)
			return v
		})
	}
	fm["envOr"] = func(key, fallback string) string {
		if v, ok := r.lookupEnv(key); ok && v != "" {
			return v
		}
		return fallback
	}
	// hostSide is true when PHP runs on the host (drush, artisan) rather
	// than inside the web container.
	fm["hostSide"] = func() bool {
		phpVersion, _ := r.lookupEnv(defs.EnvPHPVersion)
		isProject, _ := r.lookupEnv(defs.EnvIsProject)
		return phpVersion == "" && isProject == "true"
	}
	fm["phpString"] = phpString
	fm["dotenvString"] = dotenvString
	fm["xmlCData"] = xmlCData
	fm["signature"] = func() string { return defs.Signature }
	return fm
}

// phpString escapes s for a single-quoted PHP string literal.
func phpString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// dotenvString quotes s as a double-quoted .env value.
func dotenvString(s string) string {
	s = strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		`$`, `\$`,
		"\n", `\n`,
		"\r", `\r`,
	).Replace(s)
	return `"` + s + `"`
}

// xmlCData wraps s in a CDATA section, splitting any "]]>" it contains.
func xmlCData(s string) string {
	return "<![CDATA[" + strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>") + "]]>"
}
