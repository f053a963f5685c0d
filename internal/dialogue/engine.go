package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"restoivr/internal/db"
	"restoivr/internal/entities"
	apperrors "restoivr/internal/errors"
	"restoivr/internal/session"
)

// Booker is the capacity oracle plus the reservation writer.
type Booker interface {
	Availability(ctx context.Context, date, hhmm string) (entities.Availability, error)
	Book(ctx context.Context, req entities.ReservationRequest) (*db.Reservation, error)
}

type Options struct {
	// MaxRetries is how many unparseable answers in a row a step tolerates
	// before the caller is sent back to the menu.
	MaxRetries   int
	RequirePhone bool
	// MixedDispatch lets an FAQ question be answered in the middle of a booking.
	MixedDispatch bool
	Location      *time.Location
}

// Engine is the reservation slot-filling state machine.
type Engine struct {
	understander Understander
	booker       Booker
	opts         Options
	now          func() time.Time
}

func NewEngine(understander Understander, booker Booker, opts Options) *Engine {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Engine{
		understander: understander,
		booker:       booker,
		opts:         opts,
		now:          time.Now,
	}
}

// NextStep is the first slot still missing, in asking order. Notes are
// asked once; phone only when required.
func NextStep(d entities.Draft, requirePhone bool) entities.Step {
	switch {
	case d.People == nil:
		return entities.StepPeople
	case d.Date == nil:
		return entities.StepDate
	case d.Time == nil:
		return entities.StepTime
	case d.Name == nil:
		return entities.StepName
	case requirePhone && d.Phone == nil:
		return entities.StepPhone
	case !d.NotesAnswered:
		return entities.StepNotes
	}
	return entities.StepComplete
}

// Handle plays one turn of the reservation flow against s.
func (e *Engine) Handle(ctx context.Context, s *session.CallSession, turn Turn) Reply {
	s.Mode = entities.ModeReservation
	if s.CallerNumber == "" {
		s.CallerNumber = turn.From
	}

	step := NextStep(s.Draft, e.opts.RequirePhone)
	if step == entities.StepComplete {
		return e.complete(ctx, s)
	}

	if s.Awaiting == entities.StepNone {
		return e.ask(s, step)
	}
	if err := checkTurn(s, step, turn); err != nil {
		if errors.Is(err, apperrors.ErrNoInput) {
			return e.noInput(s, step)
		}
		log.Printf("Call %s: %v, asking again", s.CallID, err)
		return e.ask(s, step)
	}

	now := e.now().In(e.opts.Location)
	ans, ok := e.understander.Extract(ctx, step, turn, now)
	if !ok {
		return e.retry(ctx, s, step, turn)
	}
	s.Retries = 0
	s.NoInput = 0

	if step == entities.StepTime {
		avail, err := e.booker.Availability(ctx, *s.Draft.Date, ans.Text)
		if err != nil {
			log.Printf("Call %s: capacity check failed: %v", s.CallID, err)
			return e.abort(s)
		}
		if !avail.Fits(*s.Draft.People) {
			s.Draft.Time = nil
			return e.ask(s, entities.StepTime, seatsLeft(avail.Remaining(), *s.Draft.Date, ans.Text))
		}
	}

	apply(&s.Draft, step, ans)

	next := NextStep(s.Draft, e.opts.RequirePhone)
	if next == entities.StepComplete {
		return e.complete(ctx, s)
	}
	return e.ask(s, next)
}

// checkTurn reports why turn cannot be read as the answer to step.
func checkTurn(s *session.CallSession, step entities.Step, turn Turn) error {
	if s.Awaiting != step {
		return fmt.Errorf("%w: answer for %s while %s is missing", apperrors.ErrMalformedState, s.Awaiting, step)
	}
	if turn.Empty() && step != entities.StepNotes {
		return apperrors.ErrNoInput
	}
	return nil
}

func apply(d *entities.Draft, step entities.Step, ans Answer) {
	text := ans.Text
	switch step {
	case entities.StepPeople:
		people := ans.People
		d.People = &people
	case entities.StepDate:
		d.Date = &text
	case entities.StepTime:
		d.Time = &text
	case entities.StepName:
		d.Name = &text
	case entities.StepPhone:
		d.Phone = &text
	case entities.StepNotes:
		d.Notes = text
		d.NotesAnswered = true
	}
}

func (e *Engine) ask(s *session.CallSession, step entities.Step, before ...string) Reply {
	if s.Awaiting != step {
		s.Retries = 0
		s.NoInput = 0
	}
	s.Awaiting = step
	return Reply{
		Say:    append(before, stepPrompts[step]),
		Action: ActionListen,
		Next:   ContinueReservation,
		Listen: stepListen[step],
	}
}

// noInput repeats the question once, then goes back to the menu.
func (e *Engine) noInput(s *session.CallSession, step entities.Step) Reply {
	s.NoInput++
	if s.NoInput > 1 {
		e.toMenu(s)
		return redirect(ContinueMenu, msgSilenceToMenu)
	}
	return Reply{
		Say:    []string{msgNotHeard, stepPrompts[step]},
		Action: ActionListen,
		Next:   ContinueReservation,
		Listen: stepListen[step],
	}
}

// retry handles an answer that did not parse. The draft is left untouched.
func (e *Engine) retry(ctx context.Context, s *session.CallSession, step entities.Step, turn Turn) Reply {
	if e.opts.MixedDispatch {
		if intent := e.understander.Classify(ctx, turn.Utterance); intent.Kind == IntentFAQ {
			return e.ask(s, step, intent.Entry.Answer)
		}
	}

	s.Retries++
	if s.Retries > e.opts.MaxRetries {
		log.Printf("Call %s: %v %d times for %s, back to the menu", s.CallID, apperrors.ErrNoMatch, s.Retries, step)
		e.toMenu(s)
		return redirect(ContinueMenu, msgBackToMenu)
	}
	s.NoInput = 0
	return Reply{
		Say:    []string{msgNotUnderstood, stepPrompts[step]},
		Action: ActionListen,
		Next:   ContinueReservation,
		Listen: stepListen[step],
	}
}

// complete makes the single booking attempt of the call.
func (e *Engine) complete(ctx context.Context, s *session.CallSession) Reply {
	req := entities.NewReservationRequest(s.CallID, s.CallerNumber, s.Draft)
	res, err := e.booker.Book(ctx, req)

	var capErr *apperrors.CapacityError
	if errors.As(err, &capErr) {
		s.Draft.Time = nil
		return e.ask(s, entities.StepTime, seatsLeft(capErr.Remaining, req.Date, req.Time))
	}
	if err != nil {
		log.Printf("Call %s: reservation failed: %v", s.CallID, err)
		return e.abort(s)
	}

	say := []string{recap(res.People, res.Date, res.Time, res.Name)}
	if res.Phone != "" {
		say = append(say, contactBack(res.Phone))
	}
	say = append(say, reservationCode(res.Code), msgThanks)

	s.Draft = entities.Draft{}
	s.Awaiting = entities.StepNone
	s.Mode = entities.ModeMenu
	return hangup(say...)
}

// abort ends the call after a backend failure. Nothing has been written.
func (e *Engine) abort(s *session.CallSession) Reply {
	s.Awaiting = entities.StepNone
	return hangup(msgTechnicalIssue)
}

func (e *Engine) toMenu(s *session.CallSession) {
	s.Awaiting = entities.StepNone
	s.Retries = 0
	s.NoInput = 0
	s.Mode = entities.ModeMenu
}
