package dialogue

import (
	"strings"
	"time"
)

// Action is the terminal directive of a reply.
type Action int

const (
	// ActionListen waits for speech or keys and posts them to Next.
	ActionListen Action = iota
	// ActionRedirect jumps to Next without waiting for input.
	ActionRedirect
	ActionHangup
)

// Continuation names the webhook that handles the next turn.
type Continuation string

const (
	ContinueMenu        Continuation = "/voice"
	ContinueMenuChoice  Continuation = "/route"
	ContinueQuestion    Continuation = "/qa"
	ContinueReservation Continuation = "/resa"
)

// Listen describes what input the caller may give.
type Listen struct {
	Speech    bool
	DTMF      bool
	NumDigits int
	Timeout   time.Duration
}

// Reply is one outbound turn: sentences to speak, then one directive.
// When listening, the sentences are spoken while input is already accepted.
type Reply struct {
	Say    []string
	Action Action
	Next   Continuation
	Listen Listen
}

// Turn is one inbound webhook request.
type Turn struct {
	CallID    string
	Utterance string
	Digits    string
	From      string
}

// Empty reports a turn that carried neither speech nor keys.
func (t Turn) Empty() bool {
	return strings.TrimSpace(t.Utterance) == "" && strings.TrimSpace(t.Digits) == ""
}

// Text is the keys when some were pressed, the speech otherwise.
func (t Turn) Text() string {
	if d := strings.TrimSpace(t.Digits); d != "" {
		return d
	}
	return strings.TrimSpace(t.Utterance)
}

func hangup(say ...string) Reply {
	return Reply{Say: say, Action: ActionHangup}
}

func redirect(next Continuation, say ...string) Reply {
	return Reply{Say: say, Action: ActionRedirect, Next: next}
}
