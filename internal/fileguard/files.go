package fileguard

import (
	"bytes"
	"os"
)

// FileExists reports whether path exists (file or directory).
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// HasSignature reports whether the file at path contains signature.
func HasSignature(path, signature string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return bytes.Contains(content, []byte(signature)), nil
}
