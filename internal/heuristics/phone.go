package heuristics

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// findPhone returns the first valid number in E.164, falling back to the crude
// Indian-mobile pattern. Empty when neither finds anything.
func findPhone(text string) string {
	if p := libraryPhone(text); p != "" {
		return p
	}
	return fallbackPhone(text)
}

func libraryPhone(text string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
		}
	}()
	for _, cand := range phoneCandidateRe.FindAllString(text, -1) {
		cand = strings.TrimSpace(cand)
		if countDigits(cand) < 7 || yearRangeRe.MatchString(cand) {
			continue
		}
		num, err := phonenumbers.Parse(cand, defaultRegion)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		if e164 := phonenumbers.Format(num, phonenumbers.E164); e164 != "" {
			return e164
		}
	}
	return ""
}

func fallbackPhone(text string) string {
	m := phoneFallbackRe.FindString(text)
	if m == "" {
		return ""
	}
	d := strings.NewReplacer(" ", "", "-", "", "\t", "", "\n", "").Replace(m)
	if !strings.HasPrefix(d, "+") {
		d = "+91" + d[len(d)-10:]
	}
	return d
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
