// Package strings provides case-folding string-set helpers shared by the
// record model and the summary builder.
package strings

import "strings"

// DedupeFold trims whitespace, drops empties, and removes case-insensitive
// duplicates. The first-seen casing and order are preserved.
func DedupeFold(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	return AppendFold(make([]string, 0, len(values)), seen, values...)
}

// AppendFold appends vals to dst under the same trim and case-fold rules as
// DedupeFold. Membership is tracked in seen so callers can build a set across
// several append calls.
func AppendFold(dst []string, seen map[string]struct{}, vals ...string) []string {
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}
