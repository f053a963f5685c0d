package api

import (
	"context"
	"log"
	"net/http"
	"strings"

	"restoivr/internal/dialogue"
)

// anonymousCall keys the session when Twilio sent no CallSid.
const anonymousCall = "anonymous"

// DialogueController answers one caller turn per webhook.
type DialogueController interface {
	Welcome(ctx context.Context, turn dialogue.Turn) dialogue.Reply
	MenuChoice(ctx context.Context, turn dialogue.Turn) dialogue.Reply
	Question(ctx context.Context, turn dialogue.Turn) dialogue.Reply
	Reservation(ctx context.Context, turn dialogue.Turn) dialogue.Reply
	End(ctx context.Context, callID string)
}

type VoiceHandler struct {
	controller DialogueController
}

func NewVoiceHandler(controller DialogueController) *VoiceHandler {
	return &VoiceHandler{controller: controller}
}

func (h *VoiceHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.controller.Welcome)
}

func (h *VoiceHandler) MenuChoice(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.controller.MenuChoice)
}

func (h *VoiceHandler) Question(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.controller.Question)
}

func (h *VoiceHandler) Reservation(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.controller.Reservation)
}

// CallStatus receives Twilio's status callback and forgets finished calls.
func (h *VoiceHandler) CallStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	switch r.FormValue("CallStatus") {
	case "completed", "busy", "failed", "no-answer", "canceled":
		h.controller.End(r.Context(), callID(r))
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VoiceHandler) serve(w http.ResponseWriter, r *http.Request, step func(context.Context, dialogue.Turn) dialogue.Reply) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Panic while handling %s: %v", r.URL.Path, rec)
			writeTwiML(w, fallbackTwiML)
		}
	}()

	if err := r.ParseForm(); err != nil {
		log.Printf("Error parsing webhook form on %s: %v", r.URL.Path, err)
		writeTwiML(w, fallbackTwiML)
		return
	}

	turn := dialogue.Turn{
		CallID:    callID(r),
		Utterance: strings.TrimSpace(r.FormValue("SpeechResult")),
		Digits:    strings.TrimSpace(r.FormValue("Digits")),
		From:      r.FormValue("From"),
	}

	body, err := RenderTwiML(step(r.Context(), turn))
	if err != nil {
		log.Printf("Error rendering TwiML for call %s: %v", turn.CallID, err)
		body = fallbackTwiML
	}
	writeTwiML(w, body)
}

func callID(r *http.Request) string {
	if id := strings.TrimSpace(r.FormValue("CallSid")); id != "" {
		return id
	}
	return anonymousCall
}

func writeTwiML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
