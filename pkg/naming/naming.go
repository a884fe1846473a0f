// Package naming derives filesystem-safe display names for sanitized copies.
package naming

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidSuffix reports that appending a suffix would produce an unsafe
// filename. Callers recover by keeping the unsuffixed base.
var ErrInvalidSuffix = errors.New("suffix produces an invalid filename")

// maxNameBytes matches the FAT/exFAT display-name budget.
const maxNameBytes = 255

const ellipsis = "..."

// BaseName returns name truncated before its last dot, with any trailing
// dots removed. An empty result means the caller should fall back to a
// generated identifier.
func BaseName(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimRight(name, ".")
}

// ApplySuffix returns base+suffix when the combination is a valid filename,
// otherwise ErrInvalidSuffix.
func ApplySuffix(base, suffix string) (string, error) {
	combined := base + suffix
	if !Valid(combined) {
		return "", ErrInvalidSuffix
	}
	return combined, nil
}

// Randomized returns a fresh random identifier, used when the user opts into
// name randomization.
func Randomized() string {
	return uuid.NewString()
}

// Valid reports whether name is safe to hand to a document store as a display
// name. Invalid characters are not stripped here; Fallback does that.
func Valid(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\x00")
}

// Fallback canonicalizes an arbitrary string into a usable display name:
// invalid characters are replaced and the result is capped at 255 bytes,
// trimming from the middle with an ellipsis marker when oversized.
func Fallback(name string) string {
	return fallbackWithin(name, maxNameBytes)
}

// FallbackFor canonicalizes like Fallback while reserving room for the dot
// and extension the document store appends, so the stored filename stays
// inside the 255-byte budget.
func FallbackFor(name, ext string) string {
	budget := maxNameBytes
	if ext != "" {
		budget -= len(ext) + 1
	}
	return fallbackWithin(name, budget)
}

func fallbackWithin(name string, budget int) string {
	if name == "" || name == "." || name == ".." {
		return "_"
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == '/' || r == '\x00' {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}

	return trimMiddle(b.String(), budget)
}

func trimMiddle(s string, budget int) string {
	if len(s) <= budget {
		return s
	}

	runes := []rune(s)
	for len(runes) > 1 && runeBytes(runes)+len(ellipsis) > budget {
		mid := len(runes) / 2
		runes = append(runes[:mid], runes[mid+1:]...)
	}

	mid := len(runes) / 2
	return string(runes[:mid]) + ellipsis + string(runes[mid:])
}

func runeBytes(runes []rune) int {
	n := 0
	for _, r := range runes {
		n += len(string(r))
	}
	return n
}
