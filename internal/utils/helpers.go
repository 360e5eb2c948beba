package utils

import (
	"strings"
	"time"
	"unicode/utf8"
)

// FormatTime renders t as RFC3339 in UTC, or "" for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func FormatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatTime(*t)
}

// MaskEmail keeps the first character of the local part and the domain.
// Values without "@" mask to "".
func MaskEmail(email string) string {
	v := strings.TrimSpace(email)
	user, domain, ok := strings.Cut(v, "@")
	if v == "" || !ok {
		return ""
	}
	n := utf8.RuneCountInString(user)
	if n <= 1 {
		return "*@" + domain
	}
	first, _ := utf8.DecodeRuneInString(user)
	return string(first) + strings.Repeat("*", max(1, n-1)) + "@" + domain
}

// MaskPhone hides everything except the last four characters.
func MaskPhone(phone string) string {
	v := []rune(strings.TrimSpace(phone))
	if len(v) <= 4 {
		return string(v)
	}
	return strings.Repeat("*", len(v)-4) + string(v[len(v)-4:])
}
