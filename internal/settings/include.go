package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/modu-ai/settingsgen/internal/fileguard"
)

// Include describes the stanza a user-owned settings file needs so it loads
// the generated settings.
type Include struct {
	// Target is the user-owned settings file relative to the project root.
	Target string

	// Seed is the template path of the default settings file, used when the
	// target is missing or empty.
	Seed string

	// Needle is the text whose presence means the include is already there.
	Needle string

	// Stanza is appended when Needle is absent.
	Stanza string
}

// IncludeOutcome describes what EnsureInclude did.
type IncludeOutcome string

const (
	IncludePresent  IncludeOutcome = "present"
	IncludeAppended IncludeOutcome = "appended"
	IncludeSeeded   IncludeOutcome = "seeded"
)

// includeStanza returns the PHP snippet that loads file from the directory
// of the including settings file.
func includeStanza(file string) string {
	return fmt.Sprintf(`
// Automatically generated include for settings managed by ddev.
$ddev_settings = dirname(__FILE__) . '/%s';
if (getenv('IS_DDEV_PROJECT') == 'true' && is_readable($ddev_settings)) {
  require $ddev_settings;
}
`, file)
}

// EnsureInclude makes the settings file at inc.Target load the generated
// settings. A missing or empty file is replaced by the seed from fsys; an
// existing file without the needle gets the stanza appended. The file keeps
// its permissions and is rewritten atomically.
func EnsureInclude(w *fileguard.Writer, fsys fs.FS, projectRoot string, inc *Include) (IncludeOutcome, error) {
	target := filepath.Join(projectRoot, filepath.FromSlash(inc.Target))

	content, err := os.ReadFile(target)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read %s: %w", inc.Target, err)
	}

	missing := errors.Is(err, fs.ErrNotExist)
	if missing || len(bytes.TrimSpace(content)) == 0 {
		seed, err := fs.ReadFile(fsys, inc.Seed)
		if err != nil {
			return "", fmt.Errorf("read seed %s: %w", inc.Seed, err)
		}
		if missing {
			if _, err := w.CreateIfAbsent(target, seed, 0o644); err != nil {
				return "", err
			}
			return IncludeSeeded, nil
		}
		if _, err := w.AppendIfMissing(target, inc.Needle, string(seed)); err != nil {
			return "", err
		}
		return IncludeSeeded, nil
	}

	changed, err := w.AppendIfMissing(target, inc.Needle, inc.Stanza)
	if err != nil {
		return "", err
	}
	if changed {
		return IncludeAppended, nil
	}
	return IncludePresent, nil
}
