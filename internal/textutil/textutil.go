// Package textutil measures and cuts strings in UTF-16 code units so lengths,
// caps and truncation points line up with what browsers report for the same text.
package textutil

import (
	"strings"
	"unicode/utf16"
)

// Len returns the UTF-16 length of s.
func Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// Cut returns the longest prefix of s that fits in n UTF-16 units. A surrogate
// pair straddling the boundary is dropped.
func Cut(s string, n int) string {
	if n <= 0 {
		return ""
	}
	used := 0
	for i, r := range s {
		w := utf16.RuneLen(r)
		if w < 0 {
			w = 1
		}
		if used+w > n {
			return s[:i]
		}
		used += w
	}
	return s
}

// Ellipsize cuts s to n units and appends "..." when anything was removed.
func Ellipsize(s string, n int) string {
	if Len(s) <= n {
		return s
	}
	return Cut(s, n) + "..."
}

// Collapse folds every whitespace run (including NBSP) into one space and trims.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
