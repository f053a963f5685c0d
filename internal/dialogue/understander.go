package dialogue

import (
	"context"
	"strings"
	"time"

	"restoivr/internal/entities"
	"restoivr/internal/knowledge"
	"restoivr/internal/parse"
)

// Answer is a validated slot value. People is set for StepPeople, Text for
// every other step.
type Answer struct {
	People int
	Text   string
}

type IntentKind int

const (
	IntentUnknown IntentKind = iota
	IntentFAQ
	IntentReservation
)

type Intent struct {
	Kind  IntentKind
	Entry knowledge.Entry
}

// Understander turns a caller turn into slot values and intents.
type Understander interface {
	// Extract reads the answer to step. ok is false when nothing usable was said.
	Extract(ctx context.Context, step entities.Step, turn Turn, now time.Time) (Answer, bool)
	// Classify matches free text against the FAQ table first, then against
	// the booking keywords.
	Classify(ctx context.Context, text string) Intent
}

// RuleUnderstander relies only on the parsers and the keyword table.
type RuleUnderstander struct {
	KB       *knowledge.Base
	MaxParty int
}

func NewRuleUnderstander(kb *knowledge.Base, maxParty int) *RuleUnderstander {
	return &RuleUnderstander{KB: kb, MaxParty: maxParty}
}

func (r *RuleUnderstander) Extract(ctx context.Context, step entities.Step, turn Turn, now time.Time) (Answer, bool) {
	digits := strings.TrimSpace(turn.Digits)
	switch step {
	case entities.StepPeople:
		n, ok := parse.People(turn.Text(), r.MaxParty)
		return Answer{People: n}, ok
	case entities.StepDate:
		d, ok := parse.Date(turn.Utterance, now)
		return Answer{Text: d}, ok
	case entities.StepTime:
		t, ok := parse.Time(turn.Text())
		return Answer{Text: t}, ok
	case entities.StepName:
		n, ok := parse.Name(turn.Utterance)
		return Answer{Text: n}, ok
	case entities.StepPhone:
		p, ok := parse.Phone(digits, turn.Utterance)
		return Answer{Text: p}, ok
	case entities.StepNotes:
		return Answer{Text: parse.Notes(turn.Utterance)}, true
	}
	return Answer{}, false
}

func (r *RuleUnderstander) Classify(ctx context.Context, text string) Intent {
	if entry, ok := r.KB.Match(text); ok {
		return Intent{Kind: IntentFAQ, Entry: entry}
	}
	if r.KB.IsReservationIntent(text) {
		return Intent{Kind: IntentReservation}
	}
	return Intent{Kind: IntentUnknown}
}
