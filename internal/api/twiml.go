package api

import (
	"strconv"
	"strings"

	"github.com/twilio/twilio-go/twiml"

	"restoivr/internal/dialogue"
)

const (
	sayLanguage = "fr-FR"
	sayVoice    = "alice"
)

// fallbackTwiML is served when a reply cannot be rendered, so Twilio always
// gets a playable document.
const fallbackTwiML = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<Response><Say voice="alice" language="fr-FR">Je suis désolé, un problème technique nous empêche de continuer. Merci de rappeler un peu plus tard.</Say><Hangup/></Response>`

// RenderTwiML turns a dialogue reply into a TwiML document: the sentences in
// order, then exactly one of Gather, Redirect or Hangup.
func RenderTwiML(reply dialogue.Reply) (string, error) {
	says := make([]twiml.Element, 0, len(reply.Say)+1)
	for _, text := range reply.Say {
		if strings.TrimSpace(text) == "" {
			continue
		}
		says = append(says, &twiml.VoiceSay{Message: text, Voice: sayVoice, Language: sayLanguage})
	}

	switch reply.Action {
	case dialogue.ActionListen:
		return twiml.Voice([]twiml.Element{gather(reply, says)})
	case dialogue.ActionRedirect:
		return twiml.Voice(append(says, &twiml.VoiceRedirect{Url: string(reply.Next), Method: "POST"}))
	default:
		return twiml.Voice(append(says, &twiml.VoiceHangup{}))
	}
}

// gather nests the sentences so the caller can answer before they end.
func gather(reply dialogue.Reply, says []twiml.Element) *twiml.VoiceGather {
	l := reply.Listen
	g := &twiml.VoiceGather{
		Action:              string(reply.Next),
		Method:              "POST",
		Language:            sayLanguage,
		ActionOnEmptyResult: "true",
		InnerElements:       says,
	}

	var input []string
	if l.Speech {
		input = append(input, "speech")
		g.SpeechTimeout = "auto"
	}
	if l.DTMF || !l.Speech {
		input = append(input, "dtmf")
	}
	g.Input = strings.Join(input, " ")

	if l.NumDigits > 0 {
		g.NumDigits = strconv.Itoa(l.NumDigits)
	}
	if secs := int(l.Timeout.Seconds()); secs > 0 {
		g.Timeout = strconv.Itoa(secs)
	}
	return g
}
