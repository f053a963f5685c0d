package parse

import "strings"

const (
	MinPhoneDigits = 6
	MaxPhoneDigits = 15
)

var digitWords = map[string]byte{
	"zero": '0', "un": '1', "une": '1', "deux": '2', "trois": '3', "quatre": '4',
	"cinq": '5', "six": '6', "sept": '7', "huit": '8', "neuf": '9',
	"one": '1', "two": '2', "three": '3', "four": '4', "five": '5',
	"seven": '7', "eight": '8', "nine": '9',
}

// Phone keeps the digits of the keypad input, or of the spoken text when no
// keys were pressed. Spoken digit words count as digits.
func Phone(digits, text string) (string, bool) {
	var out []byte
	if strings.TrimSpace(digits) != "" {
		out = keepDigits(digits)
	} else {
		for _, w := range words(Fold(text)) {
			if d, ok := digitWords[w]; ok {
				out = append(out, d)
				continue
			}
			out = append(out, keepDigits(w)...)
		}
	}
	if len(out) < MinPhoneDigits || len(out) > MaxPhoneDigits {
		return "", false
	}
	return string(out), true
}

func keepDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, byte(r))
		}
	}
	return out
}
