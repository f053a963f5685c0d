package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO form every parsed date is returned in.
const DateLayout = "2006-01-02"

var (
	dayMonth     = regexp.MustCompile(`\b(\d{1,2})[/\-.](\d{1,2})\b`)
	dayMonthName = regexp.MustCompile(`\b(\d{1,2}|1er|premier)\s+(janvier|fevrier|mars|avril|mai|juin|juillet|aout|septembre|octobre|novembre|decembre|january|february|march|april|may|june|july|august|september|october|november|december)\b`)

	todayWords         = []string{"aujourd", "today", "tonight", "ce soir", "ce midi"}
	dayAfterWords      = []string{"apres-demain", "apres demain", "apresdemain", "day after tomorrow"}
	tomorrowWords      = []string{"demain", "tomorrow"}
	weekdayNamesFolded = map[string]time.Weekday{
		"lundi": time.Monday, "mardi": time.Tuesday, "mercredi": time.Wednesday,
		"jeudi": time.Thursday, "vendredi": time.Friday, "samedi": time.Saturday,
		"dimanche": time.Sunday,
		"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
		"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
		"sunday": time.Sunday,
	}
	monthNames = map[string]time.Month{
		"janvier": time.January, "fevrier": time.February, "mars": time.March,
		"avril": time.April, "mai": time.May, "juin": time.June, "juillet": time.July,
		"aout": time.August, "septembre": time.September, "octobre": time.October,
		"novembre": time.November, "decembre": time.December,
		"january": time.January, "february": time.February, "march": time.March,
		"april": time.April, "may": time.May, "june": time.June, "july": time.July,
		"august": time.August, "september": time.September, "october": time.October,
		"november": time.November, "december": time.December,
	}
)

// Date resolves a spoken day against now and returns it as YYYY-MM-DD.
//
// Rules, first match wins: today, day after tomorrow, tomorrow, a numeric
// day/month, a day followed by a month name, then a weekday name. A
// weekday always means the next occurrence, a week ahead when it is today.
// A day/month already past this year rolls over to next year.
func Date(text string, now time.Time) (string, bool) {
	folded := Fold(text)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case containsAny(folded, todayWords):
		return today.Format(DateLayout), true
	case containsAny(folded, dayAfterWords):
		return today.AddDate(0, 0, 2).Format(DateLayout), true
	case hasWord(words(folded), tomorrowWords):
		return today.AddDate(0, 0, 1).Format(DateLayout), true
	}

	if m := dayMonth.FindStringSubmatch(folded); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return calendarDate(today, day, time.Month(month))
	}
	if m := dayMonthName.FindStringSubmatch(folded); m != nil {
		day := 1
		if m[1] != "1er" && m[1] != "premier" {
			day, _ = strconv.Atoi(m[1])
		}
		return calendarDate(today, day, monthNames[m[2]])
	}
	if wd, ok := firstWeekday(folded); ok {
		delta := (int(wd) - int(today.Weekday()) + 7) % 7
		if delta == 0 {
			delta = 7
		}
		return today.AddDate(0, 0, delta).Format(DateLayout), true
	}
	return "", false
}

func calendarDate(today time.Time, day int, month time.Month) (string, bool) {
	d, ok := validDate(today.Year(), month, day, today.Location())
	if !ok {
		return "", false
	}
	if d.Before(today) {
		if d, ok = validDate(today.Year()+1, month, day, today.Location()); !ok {
			return "", false
		}
	}
	return d.Format(DateLayout), true
}

// validDate refuses dates time.Date would normalize, like 31/02.
func validDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// firstWeekday returns the weekday named earliest in the text.
func firstWeekday(folded string) (time.Weekday, bool) {
	for _, w := range words(folded) {
		if wd, ok := weekdayNamesFolded[w]; ok {
			return wd, true
		}
	}
	return time.Sunday, false
}

func hasWord(tokens, needles []string) bool {
	for _, tok := range tokens {
		for _, n := range needles {
			if tok == n {
				return true
			}
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
