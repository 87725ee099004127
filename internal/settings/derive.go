package settings

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"

	"github.com/modu-ai/settingsgen/internal/defs"
	"github.com/modu-ai/settingsgen/pkg/models"
)

// HashSalt returns a stable salt for the project name. The name is NFC
// normalised first so visually identical names produce the same salt.
func HashSalt(projectName string) string {
	return digest(norm.NFC.String(projectName))
}

// WordPressKeys derives the eight WordPress keys and salts from the project name.
func WordPressKeys(projectName string) models.WordPressKeys {
	base := norm.NFC.String(projectName)
	key := func(name string) string { return digest(base + ":" + name) }
	return models.WordPressKeys{
		AuthKey:        key("AUTH_KEY"),
		SecureAuthKey:  key("SECURE_AUTH_KEY"),
		LoggedInKey:    key("LOGGED_IN_KEY"),
		NonceKey:       key("NONCE_KEY"),
		AuthSalt:       key("AUTH_SALT"),
		SecureAuthSalt: key("SECURE_AUTH_SALT"),
		LoggedInSalt:   key("LOGGED_IN_SALT"),
		NonceSalt:      key("NONCE_SALT"),
	}
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Derive returns a copy of cfg with every derivable empty field filled in:
// salts, database driver and port, table prefix and signature. The input is
// never modified.
func Derive(cfg *models.ProjectConfig) *models.ProjectConfig {
	out := cfg.Clone()
	if out == nil {
		return nil
	}

	if out.HashSalt == "" {
		out.HashSalt = HashSalt(out.Name)
	}
	if out.WordPress == (models.WordPressKeys{}) {
		out.WordPress = WordPressKeys(out.Name)
	}
	if out.DatabaseDriver == "" {
		out.DatabaseDriver = out.DatabaseType.DriverFor(out.Type)
	}
	if out.DatabasePort == 0 {
		out.DatabasePort = out.DatabaseType.InternalPort()
	}
	if out.TablePrefix == "" && out.Type == models.AppTypeWordPress {
		out.TablePrefix = "wp_"
	}
	if out.Signature == "" {
		out.Signature = defs.Signature
	}
	return out
}
