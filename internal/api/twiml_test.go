package api

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restoivr/internal/dialogue"
)

type twimlSay struct {
	Text     string `xml:",chardata"`
	Voice    string `xml:"voice,attr"`
	Language string `xml:"language,attr"`
}

type twimlDoc struct {
	XMLName xml.Name   `xml:"Response"`
	Says    []twimlSay `xml:"Say"`
	Gather  *struct {
		Input               string     `xml:"input,attr"`
		Action              string     `xml:"action,attr"`
		NumDigits           string     `xml:"numDigits,attr"`
		Timeout             string     `xml:"timeout,attr"`
		SpeechTimeout       string     `xml:"speechTimeout,attr"`
		ActionOnEmptyResult string     `xml:"actionOnEmptyResult,attr"`
		Says                []twimlSay `xml:"Say"`
	} `xml:"Gather"`
	Redirect *struct {
		URL    string `xml:",chardata"`
		Method string `xml:"method,attr"`
	} `xml:"Redirect"`
	Hangup *struct{} `xml:"Hangup"`
}

func decodeTwiML(t *testing.T, body string) twimlDoc {
	t.Helper()
	var doc twimlDoc
	require.NoError(t, xml.Unmarshal([]byte(body), &doc), body)
	return doc
}

func TestRenderTwiML_Listen(t *testing.T) {
	body, err := RenderTwiML(dialogue.Reply{
		Say:    []string{"Je n'ai pas bien compris.", "Pour combien de personnes ?"},
		Action: dialogue.ActionListen,
		Next:   dialogue.ContinueReservation,
		Listen: dialogue.Listen{Speech: true, DTMF: true, NumDigits: 2, Timeout: 5 * time.Second},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(body, "<?xml"))

	doc := decodeTwiML(t, body)
	require.NotNil(t, doc.Gather)
	assert.Nil(t, doc.Redirect)
	assert.Nil(t, doc.Hangup)
	assert.Empty(t, doc.Says, "sentences are spoken inside the gather")

	g := doc.Gather
	assert.Equal(t, "speech dtmf", g.Input)
	assert.Equal(t, "/resa", g.Action)
	assert.Equal(t, "2", g.NumDigits)
	assert.Equal(t, "5", g.Timeout)
	assert.Equal(t, "auto", g.SpeechTimeout)
	assert.Equal(t, "true", g.ActionOnEmptyResult)
	require.Len(t, g.Says, 2)
	assert.Equal(t, "Je n'ai pas bien compris.", g.Says[0].Text)
	assert.Equal(t, "Pour combien de personnes ?", g.Says[1].Text)
	assert.Equal(t, "fr-FR", g.Says[0].Language)
	assert.Equal(t, "alice", g.Says[0].Voice)
}

func TestRenderTwiML_SpeechOnly(t *testing.T) {
	body, err := RenderTwiML(dialogue.Reply{
		Say:    []string{"Posez votre question, je vous écoute."},
		Action: dialogue.ActionListen,
		Next:   dialogue.ContinueQuestion,
		Listen: dialogue.Listen{Speech: true, Timeout: 6 * time.Second},
	})
	require.NoError(t, err)

	doc := decodeTwiML(t, body)
	require.NotNil(t, doc.Gather)
	assert.Equal(t, "speech", doc.Gather.Input)
	assert.Equal(t, "/qa", doc.Gather.Action)
}

func TestRenderTwiML_Redirect(t *testing.T) {
	body, err := RenderTwiML(dialogue.Reply{
		Say:    []string{"Wi-Fi gratuit sur place.", "Puis-je vous aider avec autre chose ?"},
		Action: dialogue.ActionRedirect,
		Next:   dialogue.ContinueMenu,
	})
	require.NoError(t, err)

	doc := decodeTwiML(t, body)
	assert.Len(t, doc.Says, 2)
	require.NotNil(t, doc.Redirect)
	assert.Equal(t, "/voice", doc.Redirect.URL)
	assert.Equal(t, "POST", doc.Redirect.Method)
	assert.Nil(t, doc.Gather)
	assert.Nil(t, doc.Hangup)
}

func TestRenderTwiML_Hangup(t *testing.T) {
	body, err := RenderTwiML(dialogue.Reply{
		Say:    []string{"Merci pour votre appel. À bientôt !", " "},
		Action: dialogue.ActionHangup,
	})
	require.NoError(t, err)

	doc := decodeTwiML(t, body)
	require.Len(t, doc.Says, 1)
	assert.Equal(t, "Merci pour votre appel. À bientôt !", doc.Says[0].Text)
	assert.NotNil(t, doc.Hangup)
	assert.Nil(t, doc.Redirect)
}

func TestFallbackTwiMLIsValid(t *testing.T) {
	doc := decodeTwiML(t, fallbackTwiML)
	require.Len(t, doc.Says, 1)
	assert.Contains(t, doc.Says[0].Text, "problème technique")
	assert.NotNil(t, doc.Hangup)
}
