package issues

import "strings"

// FormatPath joins path segments with dots. Empty segments are skipped.
func FormatPath(segments ...string) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}
