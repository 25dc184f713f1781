package naming

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold strips combining marks after canonical decomposition, so "Ünïcode"
// becomes "Unicode".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// FileStem turns a group key into a file stem. Diacritics are folded;
// anything other than ASCII letters, digits, '.', '-' and '_' becomes '_'.
// An empty result is "unnamed".
func FileStem(key string) string {
	var b strings.Builder
	for _, r := range fold(key) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '-', r == '_':
			b.WriteRune(r)
		case r == '.' && b.Len() > 0:
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	stem := b.String()
	if strings.Trim(stem, "_") == "" {
		return "unnamed"
	}
	return stem
}

// Allocator hands out unique names. The zero value is ready to use.
type Allocator struct {
	used map[string]bool
}

// Unique returns name, or name_2, name_3 ... when it was already handed
// out. Comparison ignores case so names stay distinct on case-insensitive
// file systems.
func (a *Allocator) Unique(name string) string {
	if a.used == nil {
		a.used = make(map[string]bool)
	}
	candidate := name
	for n := 2; a.used[strings.ToLower(candidate)]; n++ {
		candidate = name + "_" + strconv.Itoa(n)
	}
	a.used[strings.ToLower(candidate)] = true
	return candidate
}

// Reserve marks name as taken.
func (a *Allocator) Reserve(name string) {
	if a.used == nil {
		a.used = make(map[string]bool)
	}
	a.used[strings.ToLower(name)] = true
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == '/' || r == ' '
}

func words(s string) []string {
	return strings.FieldsFunc(s, isSeparator)
}

// ToPascalCase joins separated words with each first letter upper-cased.
// Example: "user_profile" -> "UserProfile"
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// ToCamelCase is ToPascalCase with a lower-case first letter.
// Example: "user_profile" -> "userProfile"
func ToCamelCase(s string) string {
	r := []rune(ToPascalCase(s))
	if len(r) == 0 {
		return ""
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// ToSnakeCase lower-cases s, splitting words at separators and before
// upper-case letters.
// Example: "UserProfile" -> "user_profile"
func ToSnakeCase(s string) string {
	return joinLower(s, '_')
}

// ToKebabCase is ToSnakeCase with hyphens.
// Example: "UserProfile" -> "user-profile"
func ToKebabCase(s string) string {
	return joinLower(s, '-')
}

func joinLower(s string, sep rune) string {
	var b strings.Builder
	for i, w := range words(s) {
		if i > 0 {
			b.WriteRune(sep)
		}
		for j, r := range w {
			if unicode.IsUpper(r) {
				if j > 0 {
					b.WriteRune(sep)
				}
				r = unicode.ToLower(r)
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
