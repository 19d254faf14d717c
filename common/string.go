package common

import "unicode/utf8"

// Truncate returns the first limit characters of s. A limit of zero or less
// disables truncation. The cut ignores line and file boundaries.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}

	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

// IsTruncated reports whether Truncate would shorten s
func IsTruncated(s string, limit int) bool {
	return limit > 0 && utf8.RuneCountInString(s) > limit
}
