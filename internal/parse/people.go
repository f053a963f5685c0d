package parse

import (
	"regexp"
	"strconv"
)

// DefaultMaxParty bounds the party size when the caller passes max <= 0.
const DefaultMaxParty = 50

var smallNumberToken = regexp.MustCompile(`\b(\d{1,2})\b`)

var numberWords = map[string]int{
	"un": 1, "une": 1, "one": 1,
	"deux": 2, "two": 2,
	"trois": 3, "three": 3,
	"quatre": 4, "four": 4,
	"cinq": 5, "five": 5,
	"six": 6,
	"sept": 7, "seven": 7,
	"huit": 8, "eight": 8,
	"neuf": 9, "nine": 9,
	"dix": 10, "ten": 10,
	"onze": 11, "eleven": 11,
	"douze": 12, "twelve": 12,
	"treize": 13, "thirteen": 13,
	"quatorze": 14, "fourteen": 14,
	"quinze": 15, "fifteen": 15,
	"seize": 16, "sixteen": 16,
	"seventeen": 17, "eighteen": 18, "nineteen": 19,
	"vingt": 20, "twenty": 20,
	"trente": 30, "thirty": 30,
	"quarante": 40, "forty": 40,
	"cinquante": 50, "fifty": 50,
}

// Articles double as "one"; they only count when nothing else does.
var weakNumberWords = map[string]bool{"un": true, "une": true}

// People extracts a party size: the first standalone one or two digit
// number, otherwise the first number word. Values outside 1..max are refused.
func People(text string, max int) (int, bool) {
	if max <= 0 {
		max = DefaultMaxParty
	}
	folded := Fold(text)
	n, ok := firstSmallNumber(folded)
	if !ok {
		n, ok = numberFromWords(words(folded))
	}
	if !ok || n < 1 || n > max {
		return 0, false
	}
	return n, true
}

func firstSmallNumber(folded string) (int, bool) {
	m := smallNumberToken.FindStringSubmatch(folded)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func numberFromWords(tokens []string) (int, bool) {
	weak := false
	for i := 0; i < len(tokens); i++ {
		v, ok := numberWords[tokens[i]]
		if !ok {
			continue
		}
		if weakNumberWords[tokens[i]] {
			weak = true
			continue
		}
		return v + compoundTail(v, tokens[i+1:]), true
	}
	if weak {
		return 1, true
	}
	return 0, false
}

// compoundTail reads the rest of "dix-sept", "vingt et un" or "twenty two".
func compoundTail(head int, rest []string) int {
	if head < 10 || head%10 != 0 || len(rest) == 0 {
		return 0
	}
	next := rest[0]
	if next == "et" && len(rest) > 1 {
		next = rest[1]
	}
	unit, ok := numberWords[next]
	if !ok || unit > 9 {
		return 0
	}
	if head == 10 && unit < 7 {
		return 0
	}
	return unit
}
