package dialogue

import (
	"context"
	"log"
	"strings"

	"restoivr/internal/entities"
	"restoivr/internal/knowledge"
	"restoivr/internal/session"
)

// Controller routes each webhook turn to the menu, the FAQ or the
// reservation engine, with the call session locked for the whole turn.
type Controller struct {
	sessions     session.Store
	engine       *Engine
	understander Understander
	kb           *knowledge.Base
	maxRetries   int
}

func NewController(sessions session.Store, engine *Engine, understander Understander, kb *knowledge.Base) *Controller {
	return &Controller{
		sessions:     sessions,
		engine:       engine,
		understander: understander,
		kb:           kb,
		maxRetries:   engine.opts.MaxRetries,
	}
}

// Welcome greets the caller and offers the main menu.
func (c *Controller) Welcome(ctx context.Context, turn Turn) Reply {
	return c.turn(ctx, turn, func(s *session.CallSession) Reply {
		s.Mode = entities.ModeMenu
		s.Awaiting = entities.StepNone
		s.Retries = 0

		say := []string{msgMenu}
		if !s.Greeted {
			s.Greeted = true
			say = append([]string{welcome(c.kb.Name)}, say...)
		}
		return Reply{Say: say, Action: ActionListen, Next: ContinueMenuChoice, Listen: menuListen}
	})
}

// MenuChoice handles the answer to the main menu.
func (c *Controller) MenuChoice(ctx context.Context, turn Turn) Reply {
	return c.turn(ctx, turn, func(s *session.CallSession) Reply {
		switch strings.TrimSpace(turn.Digits) {
		case "1":
			return c.startReservation(s)
		case "2":
			hours, _ := c.kb.Lookup(knowledge.TopicHours)
			return hangup(hours, msgGoodbye)
		case "3":
			s.Mode = entities.ModeQuestion
			s.MenuRepeats = 0
			s.Retries = 0
			return Reply{Say: []string{msgAskQuestion}, Action: ActionListen, Next: ContinueQuestion, Listen: questionListen}
		}

		if turn.Empty() {
			return c.repeatMenu(s, msgMenuNoInput)
		}
		if strings.TrimSpace(turn.Digits) == "" {
			intent := c.understander.Classify(ctx, turn.Utterance)
			switch intent.Kind {
			case IntentFAQ:
				return c.answer(s, intent.Entry)
			case IntentReservation:
				return c.startReservation(s)
			}
		}
		return c.repeatMenu(s, msgMenuUnknown)
	})
}

// Question answers one free question from the FAQ table.
func (c *Controller) Question(ctx context.Context, turn Turn) Reply {
	return c.turn(ctx, turn, func(s *session.CallSession) Reply {
		if strings.TrimSpace(turn.Utterance) == "" {
			return c.repeatMenu(s, msgQuestionHeard)
		}

		intent := c.understander.Classify(ctx, turn.Utterance)
		switch intent.Kind {
		case IntentFAQ:
			return c.answer(s, intent.Entry)
		case IntentReservation:
			return c.startReservation(s)
		}

		s.Retries++
		if s.Retries > c.maxRetries {
			s.Retries = 0
			s.Mode = entities.ModeMenu
			contact, _ := c.kb.Lookup(knowledge.TopicContact)
			return redirect(ContinueMenu, "Je suis désolé, je ne peux pas répondre à cette question.", contact)
		}
		return Reply{Say: []string{msgQuestionAgain}, Action: ActionListen, Next: ContinueQuestion, Listen: questionListen}
	})
}

// Reservation hands the turn to the slot-filling engine.
func (c *Controller) Reservation(ctx context.Context, turn Turn) Reply {
	return c.turn(ctx, turn, func(s *session.CallSession) Reply {
		return c.engine.Handle(ctx, s, turn)
	})
}

// End forgets a call once the telephony side reports it finished.
func (c *Controller) End(ctx context.Context, callID string) {
	if err := c.sessions.Delete(ctx, callID); err != nil {
		log.Printf("Call %s: could not drop session: %v", callID, err)
	}
}

func (c *Controller) startReservation(s *session.CallSession) Reply {
	s.Mode = entities.ModeReservation
	s.MenuRepeats = 0
	s.Retries = 0
	return redirect(ContinueReservation)
}

func (c *Controller) answer(s *session.CallSession, entry knowledge.Entry) Reply {
	s.Mode = entities.ModeMenu
	s.MenuRepeats = 0
	s.Retries = 0
	return redirect(ContinueMenu, entry.Answer, msgAnythingElse)
}

// repeatMenu sends the caller back to the menu, and says goodbye once the
// menu has been offered too many times without an answer.
func (c *Controller) repeatMenu(s *session.CallSession, say string) Reply {
	s.Mode = entities.ModeMenu
	s.MenuRepeats++
	if s.MenuRepeats > c.maxRetries {
		return hangup(msgGoodbye)
	}
	return redirect(ContinueMenu, say)
}

// turn runs fn under the session lock. A store failure still produces a
// complete reply.
func (c *Controller) turn(ctx context.Context, t Turn, fn func(*session.CallSession) Reply) Reply {
	var reply Reply
	err := c.sessions.Update(ctx, t.CallID, func(s *session.CallSession) error {
		reply = fn(s)
		return nil
	})
	if err != nil {
		log.Printf("Call %s: session store failed: %v", t.CallID, err)
		return hangup(msgTechnicalIssue)
	}
	if reply.Action == ActionHangup {
		c.End(ctx, t.CallID)
	}
	return reply
}
