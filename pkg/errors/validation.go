package errors

import (
	"strings"
	"unicode"
)

// validNameRune reports whether r may appear in piece, preset, and palette
// names. Names are registry keys and flow through URLs and cache paths, so
// the set is intentionally conservative.
func validNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_'
}

func validateName(kind string, code Code, name string) error {
	if name == "" {
		return New(code, "%s name cannot be empty", kind)
	}
	if len(name) > 64 {
		return New(code, "%s name too long (max 64 characters)", kind)
	}
	for _, r := range name {
		if !validNameRune(r) {
			return New(code, "invalid %s name: %q", kind, name)
		}
	}
	return nil
}

// ValidatePieceName validates a piece name. Piece names appear in URLs and
// cache keys and must stay within lowercase letters, digits, hyphen, and
// underscore.
func ValidatePieceName(name string) error {
	return validateName("piece", ErrCodeInvalidPiece, name)
}

// ValidatePresetName validates a preset name with the same character rules
// as piece names.
func ValidatePresetName(name string) error {
	return validateName("preset", ErrCodeInvalidPreset, name)
}

// ValidatePaletteName validates a palette name with the same character rules
// as piece names.
func ValidatePaletteName(name string) error {
	return validateName("palette", ErrCodeInvalidPalette, name)
}

// ValidateScriptPath validates a warp-script path before it is handed to the
// Lua loader. The path may be absolute or relative; only unprintable input
// is rejected here, existence is checked at load time.
func ValidateScriptPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "script path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "script path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "script path contains invalid characters")
		}
	}

	return nil
}

// ValidateOutputPath validates a user-supplied output location. Empty is
// allowed (it means stdout or a derived default); otherwise the same
// unprintable-character rules as script paths apply, plus a guard against
// writing to paths that end in a separator.
func ValidateOutputPath(path string) error {
	if path == "" {
		return nil
	}
	if err := ValidateScriptPath(path); err != nil {
		return New(ErrCodeInvalidPath, "invalid output path: %q", path)
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path is a directory: %q", path)
	}
	return nil
}
