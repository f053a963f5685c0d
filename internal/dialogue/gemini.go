package dialogue

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"

	"restoivr/internal/entities"
	"restoivr/internal/knowledge"
	"restoivr/internal/parse"
)

// generator is the part of *genai.Models the understander uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiUnderstander asks a Gemini model to normalize what the caller said.
// Its output is validated with the same rules as typed input, and any error,
// timeout or invalid value falls back to the rule understander.
type GeminiUnderstander struct {
	models   generator
	model    string
	timeout  time.Duration
	kb       *knowledge.Base
	maxParty int
	fallback Understander
}

func NewGeminiUnderstander(ctx context.Context, apiKey, model string, timeout time.Duration, kb *knowledge.Base, maxParty int) (*GeminiUnderstander, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newGeminiUnderstander(client.Models, model, timeout, kb, maxParty), nil
}

func newGeminiUnderstander(models generator, model string, timeout time.Duration, kb *knowledge.Base, maxParty int) *GeminiUnderstander {
	if maxParty <= 0 {
		maxParty = parse.DefaultMaxParty
	}
	return &GeminiUnderstander{
		models:   models,
		model:    model,
		timeout:  timeout,
		kb:       kb,
		maxParty: maxParty,
		fallback: NewRuleUnderstander(kb, maxParty),
	}
}

var slotInstructions = map[entities.Step]string{
	entities.StepPeople: `le nombre de personnes, un entier, par exemple "4"`,
	entities.StepDate:   `la date de la réservation au format AAAA-MM-JJ`,
	entities.StepTime:   `l'heure de la réservation au format HH:MM sur 24 heures, sans jamais la modifier`,
	entities.StepName:   `le nom de la personne qui réserve, sans formule comme "au nom de"`,
	entities.StepPhone:  `le numéro de téléphone, uniquement des chiffres`,
	entities.StepNotes:  `la remarque particulière, ou une chaîne vide si l'appelant n'en a pas`,
}

type modelAnswer struct {
	Value string `json:"value"`
}

func (g *GeminiUnderstander) Extract(ctx context.Context, step entities.Step, turn Turn, now time.Time) (Answer, bool) {
	instruction, known := slotInstructions[step]
	if !known || turn.Empty() || strings.TrimSpace(turn.Digits) != "" {
		return g.fallback.Extract(ctx, step, turn, now)
	}

	prompt := fmt.Sprintf(`Tu aides le répondeur téléphonique d'un restaurant à comprendre un appelant.
Nous sommes le %s (%s).
Extrais %s de la réponse suivante : %q
Réponds uniquement avec un objet JSON {"value": "..."}. Si la réponse ne contient pas cette information, renvoie {"value": ""}.`,
		now.Format(parse.DateLayout), frenchWeekday(now.Weekday()), instruction, turn.Utterance)

	value, err := g.ask(ctx, prompt)
	if err != nil {
		log.Printf("Gemini extraction for %s failed, using rules: %v", step, err)
		return g.fallback.Extract(ctx, step, turn, now)
	}
	if ans, ok := g.validate(step, value, now); ok {
		return ans, true
	}
	return g.fallback.Extract(ctx, step, turn, now)
}

func (g *GeminiUnderstander) validate(step entities.Step, value string, now time.Time) (Answer, bool) {
	value = strings.TrimSpace(value)
	switch step {
	case entities.StepPeople:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > g.maxParty {
			return Answer{}, false
		}
		return Answer{People: n}, true
	case entities.StepDate:
		d, err := time.ParseInLocation(parse.DateLayout, value, now.Location())
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if err != nil || d.Before(today) {
			return Answer{}, false
		}
		return Answer{Text: d.Format(parse.DateLayout)}, true
	case entities.StepTime:
		t, ok := parse.Time(value)
		return Answer{Text: t}, ok
	case entities.StepName:
		n, ok := parse.Name(value)
		return Answer{Text: n}, ok
	case entities.StepPhone:
		p, ok := parse.Phone(value, "")
		return Answer{Text: p}, ok
	case entities.StepNotes:
		return Answer{Text: parse.Notes(value)}, true
	}
	return Answer{}, false
}

func (g *GeminiUnderstander) Classify(ctx context.Context, text string) Intent {
	if strings.TrimSpace(text) == "" {
		return Intent{Kind: IntentUnknown}
	}

	topics := make([]string, 0, len(g.kb.Entries))
	for _, e := range g.kb.Entries {
		topics = append(topics, string(e.Topic))
	}
	prompt := fmt.Sprintf(`Un appelant dit au répondeur d'un restaurant : %q
Choisis ce qu'il veut parmi : reservation, %s, none.
Réponds uniquement avec un objet JSON {"value": "..."}.`, text, strings.Join(topics, ", "))

	value, err := g.ask(ctx, prompt)
	if err != nil {
		log.Printf("Gemini classification failed, using rules: %v", err)
		return g.fallback.Classify(ctx, text)
	}

	value = strings.ToLower(strings.TrimSpace(value))
	if value == "reservation" {
		return Intent{Kind: IntentReservation}
	}
	if answer, ok := g.kb.Lookup(knowledge.Topic(value)); ok {
		return Intent{Kind: IntentFAQ, Entry: knowledge.Entry{Topic: knowledge.Topic(value), Answer: answer}}
	}
	return g.fallback.Classify(ctx, text)
}

func (g *GeminiUnderstander) ask(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
	})
	if err != nil {
		return "", err
	}

	var out modelAnswer
	if err := sonic.Unmarshal([]byte(resp.Text()), &out); err != nil {
		return "", fmt.Errorf("decode model answer: %w", err)
	}
	return out.Value, nil
}

var frenchWeekdays = [...]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}

func frenchWeekday(d time.Weekday) string {
	return frenchWeekdays[d]
}
