package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// hashSampleSize is the number of bytes read from each end of a file when
// fingerprinting it.
const hashSampleSize = 1 << 20

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// EnsureParentDir creates the directory that will hold path
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return EnsureDir(dir)
}

// FileExists checks if a regular file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// StripPath removes a leading "[subfolder]" annotation that upload widgets
// prepend to file names.
func StripPath(path string) string {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "[") {
		if i := strings.Index(path, "]"); i >= 0 {
			return strings.TrimSpace(path[i+1:])
		}
	}
	return path
}

// ResolvePath joins a relative path onto base. Absolute paths and an empty
// base are returned cleaned but otherwise untouched.
func ResolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) || base == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// FileHash fingerprints a file from its size, modification time and the
// first and last MiB of content.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	h := sha256.New()
	fmt.Fprintf(h, "%d:%d:", info.Size(), info.ModTime().UnixNano())

	if _, err := io.CopyN(h, f, hashSampleSize); err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if info.Size() > 2*hashSampleSize {
		if _, err := f.Seek(-hashSampleSize, io.SeekEnd); err != nil {
			return "", fmt.Errorf("failed to seek %s: %w", path, err)
		}
		if _, err := io.Copy(h, f); err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
