package dialogue

import (
	"fmt"
	"strings"
	"time"

	"restoivr/internal/entities"
)

const (
	msgMenu           = "Pour réserver une table, appuyez sur 1. Pour nos horaires, appuyez sur 2. Pour poser une question, appuyez sur 3."
	msgMenuNoInput    = "Je n'ai pas reçu de saisie. Je répète."
	msgMenuUnknown    = "Je n'ai pas compris. Revenons au menu."
	msgGoodbye        = "Merci pour votre appel. À bientôt !"
	msgAskQuestion    = "Posez votre question, je vous écoute."
	msgQuestionAgain  = "Je n'ai pas bien compris. Pouvez-vous reformuler votre question ? Pour réserver, dites simplement réserver."
	msgQuestionHeard  = "Je n'ai pas entendu. Revenons au menu."
	msgAnythingElse   = "Puis-je vous aider avec autre chose ?"
	msgNotUnderstood  = "Je n'ai pas bien compris."
	msgNotHeard       = "Je n'ai pas entendu votre réponse."
	msgBackToMenu     = "Je suis désolé, je n'arrive pas à vous comprendre. Revenons au menu principal."
	msgSilenceToMenu  = "Je n'ai rien entendu. Revenons au menu principal."
	msgTechnicalIssue = "Je suis désolé, un problème technique nous empêche de continuer. Merci de rappeler un peu plus tard."
	msgThanks         = "Merci et à bientôt !"
)

var stepPrompts = map[entities.Step]string{
	entities.StepPeople: "Pour combien de personnes ?",
	entities.StepDate:   "Pour quel jour souhaitez-vous réserver ?",
	entities.StepTime:   "À quelle heure souhaitez-vous réserver ?",
	entities.StepName:   "À quel nom dois-je enregistrer la réservation ?",
	entities.StepPhone:  "Quel numéro de téléphone pour confirmer ? Dites-le ou composez-le, suivi de la touche dièse.",
	entities.StepNotes:  "Avez-vous une remarque particulière, une allergie ou une occasion à signaler ? Sinon, dites non.",
}

var stepListen = map[entities.Step]Listen{
	entities.StepPeople: {Speech: true, DTMF: true, NumDigits: 2, Timeout: 5 * time.Second},
	entities.StepDate:   {Speech: true, Timeout: 5 * time.Second},
	entities.StepTime:   {Speech: true, DTMF: true, NumDigits: 4, Timeout: 5 * time.Second},
	entities.StepName:   {Speech: true, Timeout: 5 * time.Second},
	entities.StepPhone:  {Speech: true, DTMF: true, Timeout: 8 * time.Second},
	entities.StepNotes:  {Speech: true, Timeout: 5 * time.Second},
}

var menuListen = Listen{Speech: true, DTMF: true, NumDigits: 1, Timeout: 6 * time.Second}

var questionListen = Listen{Speech: true, Timeout: 6 * time.Second}

func welcome(restaurant string) string {
	return fmt.Sprintf("Bienvenue au %s.", restaurant)
}

func seatsLeft(remaining int, date, hhmm string) string {
	switch remaining {
	case 0:
		return fmt.Sprintf("Désolé, nous sommes complets le %s à %s.", date, hhmm)
	case 1:
		return fmt.Sprintf("Désolé, il ne reste qu'une place le %s à %s.", date, hhmm)
	}
	return fmt.Sprintf("Désolé, il ne reste que %d places le %s à %s.", remaining, date, hhmm)
}

func recap(people int, date, hhmm, name string) string {
	return fmt.Sprintf("Parfait. Réservation notée pour %s, le %s à %s, au nom de %s.", entities.Covers(people), date, hhmm, name)
}

func contactBack(phone string) string {
	return fmt.Sprintf("Nous vous recontacterons au %s si nécessaire.", spell(phone))
}

func reservationCode(code string) string {
	return fmt.Sprintf("Votre numéro de réservation est %s.", spell(code))
}

// spell separates characters so text-to-speech reads them one by one.
func spell(s string) string {
	return strings.Join(strings.Split(strings.TrimPrefix(s, "+"), ""), " ")
}
