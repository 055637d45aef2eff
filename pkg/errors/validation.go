package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// vertexNameRegex matches names accepted in graph descriptions.
var vertexNameRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.:/-]*$`)

// ValidateVertexName validates a vertex name from a graph description.
//
// The rules are intentionally conservative so names survive as Graphviz
// identifiers and TOML strings:
//   - No empty names
//   - No control characters or whitespace
//   - Maximum length of 128 characters
func ValidateVertexName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "vertex name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "vertex name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "vertex name %q contains whitespace or control characters", name)
		}
	}

	if !vertexNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid vertex name: %q", name)
	}

	return nil
}

// ValidateSize validates a neuron count. Sizes are strictly positive.
func ValidateSize(what string, size int) error {
	if size < 1 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %d", what, size)
	}
	return nil
}

// ValidateFactor validates a divisibility factor. Zero means "use the
// default of 1"; negative factors are rejected.
func ValidateFactor(what string, factor int) error {
	if factor < 0 {
		return New(ErrCodeInvalidInput, "%s must not be negative, got %d", what, factor)
	}
	return nil
}

// ValidateKind validates a vertex kind against the accepted set, ignoring case.
func ValidateKind(kind string, accepted ...string) error {
	for _, a := range accepted {
		if strings.EqualFold(kind, a) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "unknown vertex kind %q (want one of %s)", kind, strings.Join(accepted, ", "))
}
