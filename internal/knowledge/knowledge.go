package knowledge

import (
	"strings"

	"restoivr/internal/parse"
)

type Topic string

const (
	TopicHours      Topic = "hours"
	TopicAddress    Topic = "address"
	TopicGlutenFree Topic = "glutenfree"
	TopicVegetarian Topic = "vegetarian"
	TopicHalal      Topic = "halal"
	TopicAllergens  Topic = "allergens"
	TopicPrice      Topic = "price"
	TopicParking    Topic = "parking"
	TopicPayment    Topic = "payment"
	TopicTerrace    Topic = "terrace"
	TopicPets       Topic = "pets"
	TopicKids       Topic = "kids"
	TopicWifi       Topic = "wifi"
	TopicAccess     Topic = "access"
	TopicDelivery   Topic = "delivery"
	TopicAlcohol    Topic = "alcohol"
	TopicContact    Topic = "contact"
)

// Entry is one row of the FAQ table.
//
// A keyword is matched against whole words of the folded question. A
// keyword of several words must appear as consecutive words, and a
// trailing "*" turns the last word into a prefix ("reserv*").
type Entry struct {
	Topic    Topic    `yaml:"topic"`
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`
}

// Base holds the restaurant facts. Entries are tried in order.
type Base struct {
	Name                string   `yaml:"name"`
	Phone               string   `yaml:"phone"`
	Entries             []Entry  `yaml:"entries"`
	ReservationKeywords []string `yaml:"reservation_keywords"`
}

// Match returns the first entry whose keywords appear in text.
func (b *Base) Match(text string) (Entry, bool) {
	tokens := parse.Tokens(text)
	if len(tokens) == 0 {
		return Entry{}, false
	}
	for _, e := range b.Entries {
		if matchAny(tokens, e.Keywords) {
			return e, true
		}
	}
	return Entry{}, false
}

// Lookup returns the canned answer for a topic.
func (b *Base) Lookup(topic Topic) (string, bool) {
	for _, e := range b.Entries {
		if e.Topic == topic {
			return e.Answer, true
		}
	}
	return "", false
}

// IsReservationIntent reports whether the caller asked to book.
func (b *Base) IsReservationIntent(text string) bool {
	return matchAny(parse.Tokens(text), b.ReservationKeywords)
}

func matchAny(tokens, keywords []string) bool {
	for _, kw := range keywords {
		if matchKeyword(tokens, kw) {
			return true
		}
	}
	return false
}

func matchKeyword(tokens []string, keyword string) bool {
	prefix := strings.HasSuffix(keyword, "*")
	parts := parse.Tokens(strings.TrimSuffix(keyword, "*"))
	if len(parts) == 0 || len(parts) > len(tokens) {
		return false
	}
	for start := 0; start+len(parts) <= len(tokens); start++ {
		if matchAt(tokens[start:start+len(parts)], parts, prefix) {
			return true
		}
	}
	return false
}

func matchAt(window, parts []string, prefix bool) bool {
	last := len(parts) - 1
	for i, p := range parts {
		if i == last && prefix {
			if !strings.HasPrefix(window[i], p) {
				return false
			}
			continue
		}
		if window[i] != p {
			return false
		}
	}
	return true
}
