package parse

import "strings"

var noNotes = map[string]bool{
	"": true, "non": true, "non merci": true, "rien": true, "rien de special": true,
	"aucune": true, "aucun": true, "pas de remarque": true, "c'est tout": true,
	"no": true, "none": true, "nothing": true, "no thanks": true,
}

// Notes returns the free-text remark, or "" when the caller declined.
func Notes(text string) string {
	s := strings.TrimSpace(text)
	key := strings.Join(strings.Fields(strings.Trim(Fold(s), ".,;:!? ")), " ")
	if noNotes[key] {
		return ""
	}
	return s
}
