package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateColumnName validates a column name used to look up case fields.
// Column names come from flags or config and end up in SQL identifiers, so
// the rules are conservative:
//   - No empty names
//   - No control characters
//   - No double quotes (they would break identifier quoting)
//   - Maximum length of 128 characters
func ValidateColumnName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidOption, "column name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidOption, "column name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidOption, "column name %q contains control characters", name)
		}
	}

	if strings.Contains(name, `"`) {
		return New(ErrCodeInvalidOption, "column name %q cannot contain double quotes", name)
	}

	return nil
}

// ValidateTableName validates a SQLite table name.
// Only letters, digits and underscores are accepted, and the name must not
// start with a digit.
func ValidateTableName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidOption, "table name cannot be empty")
	}
	for i, r := range name {
		switch {
		case r == '_', unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return New(ErrCodeInvalidOption, "table name %q must contain only letters, digits and underscores", name)
		}
	}
	return nil
}

// ValidateOutputPath validates a path an artifact will be written to.
// The directory part may be anything; the file name must be a plain name
// that is not a directory reference.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidOption, "output path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidOption, "output path contains invalid characters")
		}
	}

	base := filepath.Base(path)
	if base == "." || base == ".." || base == string(filepath.Separator) || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidOption, "output path %q must name a file", path)
	}

	return nil
}
