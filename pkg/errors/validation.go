package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds structure names accepted from users and files.
const maxNameLength = 256

// ValidateName validates a structure name before it is written into the
// text format, where the name occupies a single line.
//
// The rules are:
//   - No empty names
//   - No whitespace or control characters
//   - Maximum length of 256 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "structure name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "structure name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "structure name contains whitespace or control characters: %q", name)
		}
	}
	return nil
}

// SanitizeName replaces characters rejected by ValidateName with
// underscores. An empty name becomes "untitled".
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "untitled"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if len(out) > maxNameLength {
		out = out[:maxNameLength]
	}
	return out
}

// ValidateStructureAlphabet checks that a dot-bracket string only contains
// characters the parser understands.
func ValidateStructureAlphabet(s string) error {
	if s == "" {
		return New(ErrCodeInvalidStructure, "structure cannot be empty")
	}
	for i, r := range s {
		switch {
		case r == '.' || r == '&':
		case strings.ContainsRune("()[]{}<>", r):
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		default:
			return New(ErrCodeInvalidStructure, "invalid character %q at position %d", r, i+1)
		}
	}
	return nil
}
