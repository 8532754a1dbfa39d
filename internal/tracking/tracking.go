// Package tracking defines the customer-facing order code format.
//
// A tracking code is DDMMYY-NNN: a six-digit date prefix from the order's
// creation day, a hyphen, and a per-tenant-day sequence number starting at 1,
// zero-padded to at least three digits. The sequence widens past 999 rather
// than wrapping, so 091226-1000 is a legal code.
package tracking

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// codePattern is the wire contract for tracking codes.
var codePattern = regexp.MustCompile(`^\d{6}-\d{3,}$`)

// Prefix returns the DDMMYY date prefix for the given moment.
// The caller is responsible for localizing t to the shop's timezone first;
// the prefix decides which day's sequence the order joins.
func Prefix(t time.Time) string {
	return t.Format("020106")
}

// Format builds a tracking code from a date prefix and sequence number.
func Format(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}

// Parse splits a tracking code into its date prefix and sequence number.
func Parse(code string) (prefix string, seq int64, err error) {
	if !codePattern.MatchString(code) {
		return "", 0, fmt.Errorf("malformed tracking code: %q", code)
	}
	prefix = code[:6]
	seq, err = strconv.ParseInt(code[7:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed tracking code: %q", code)
	}
	return prefix, seq, nil
}

// IsValid reports whether code matches the tracking code format.
func IsValid(code string) bool {
	return codePattern.MatchString(code)
}
