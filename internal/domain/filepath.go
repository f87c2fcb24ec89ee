package domain

import (
	"encoding/json"
	"strings"
)

// invalidFilePathSentinel is substituted by repository code when a
// persisted path fails validation at read time. It must never be produced
// from an input boundary.
const invalidFilePathSentinel = "[INVALID_PATH]"

// FilePath is a validated file system path, safe from path traversal.
type FilePath struct {
	value string
}

// NewFilePath validates path and returns a FilePath, or an InvalidFilePath
// domain error.
func NewFilePath(path string) (FilePath, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return FilePath{}, New(InvalidFilePath, "path cannot be empty")
	}
	if err := validateNoTraversal(trimmed); err != nil {
		return FilePath{}, err
	}
	return FilePath{value: trimmed}, nil
}

// InvalidFilePathValue is the repository-only fallback for corrupted rows.
// It must never be reachable from an input boundary.
func InvalidFilePathValue() FilePath {
	return FilePath{value: invalidFilePathSentinel}
}

func validateNoTraversal(path string) error {
	for _, sep := range []string{"\\", "/"} {
		for _, component := range strings.Split(path, sep) {
			if component == ".." {
				return New(InvalidFilePath, "path traversal not allowed: '..' detected")
			}
			if component == "." {
				return New(InvalidFilePath, "path traversal not allowed: '.' detected")
			}
		}
	}
	if strings.Contains(path, "..") || strings.Contains(path, "./") || strings.Contains(path, ".\\") {
		return New(InvalidFilePath, "path traversal patterns not allowed")
	}
	return nil
}

// String returns the path as a string.
func (p FilePath) String() string { return p.value }

// IsZero reports whether p was never assigned (the zero value).
func (p FilePath) IsZero() bool { return p.value == "" }

// MarshalJSON encodes p as its plain string value.
func (p FilePath) MarshalJSON() ([]byte, error) { return json.Marshal(p.value) }
