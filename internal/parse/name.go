package parse

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var nameLeadIn = regexp.MustCompile(`(?i)^\s*(?:(?:c'est\s+)?au\s+nom\s+de|je\s+m'appelle|je\s+suis|moi\s+c'est|c'est|my\s+name\s+is|the\s+name\s+is|it's|name\s+is)\s+`)

// Name trims lead-ins such as "au nom de", collapses spaces and title-cases.
func Name(text string) (string, bool) {
	s := strings.NewReplacer("’", "'").Replace(text)
	s = nameLeadIn.ReplaceAllString(s, "")
	s = strings.Trim(strings.TrimSpace(s), ".,;:!?")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return "", false
	}
	return cases.Title(language.French).String(s), true
}
