package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	hourMinute = regexp.MustCompile(`\b(\d{1,2})\s*(?:heures?|h|:)\s*(\d{2})\b`)
	hourOnly   = regexp.MustCompile(`\b(\d{1,2})\s*(?:heures?|h)\b(?:\s*et\s*(demie?|quart))?`)
	compact    = regexp.MustCompile(`\b(\d{3,4})\b`)
	bareHour   = regexp.MustCompile(`\b(\d{1,2})\b`)
)

// Time reads a wall-clock time and returns it as HH:MM on a 24-hour scale.
//
// Branches are tried in order: "19h30" or "19:30", "19h" or "19 heures",
// "1930", then a bare "19". A match whose hour or minute is out of range is
// blanked out before the next branch runs, so its digits are never read
// again. Once an explicit time was rejected a bare number is not taken as
// an hour. The spoken value is never rounded or moved to a nearby slot.
func Time(text string) (string, bool) {
	folded := Fold(text)
	rejected := false

	if m := hourMinute.FindStringSubmatch(folded); m != nil {
		if t, ok := clock(m[1], m[2]); ok {
			return t, true
		}
		folded, rejected = blank(folded, m[0]), true
	}
	if m := hourOnly.FindStringSubmatch(folded); m != nil {
		minute := "00"
		switch {
		case strings.HasPrefix(m[2], "demi"):
			minute = "30"
		case m[2] == "quart":
			minute = "15"
		}
		if t, ok := clock(m[1], minute); ok {
			return t, true
		}
		folded, rejected = blank(folded, m[0]), true
	}
	if m := compact.FindStringSubmatch(folded); m != nil {
		digits := m[1]
		split := len(digits) - 2
		if t, ok := clock(digits[:split], digits[split:]); ok {
			return t, true
		}
		folded, rejected = blank(folded, m[0]), true
	}
	if m := bareHour.FindStringSubmatch(folded); m != nil && !rejected {
		if t, ok := clock(m[1], "00"); ok {
			return t, true
		}
	}
	switch {
	case strings.Contains(folded, "minuit"), strings.Contains(folded, "midnight"):
		return "00:00", true
	case strings.Contains(folded, "midi"), strings.Contains(folded, "noon"):
		return "12:00", true
	}
	return "", false
}

func blank(s, span string) string {
	return strings.Replace(s, span, " ", 1)
}

func clock(hour, minute string) (string, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil || h < 0 || h > 23 {
		return "", false
	}
	m, err := strconv.Atoi(minute)
	if err != nil || m < 0 || m > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}
