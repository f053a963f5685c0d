package dialogue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restoivr/internal/entities"
	"restoivr/internal/knowledge"
	"restoivr/internal/session"
)

type brokenStore struct {
	session.Store
}

func (brokenStore) Update(ctx context.Context, callID string, fn func(*session.CallSession) error) error {
	return errors.New("redis: connection refused")
}

func (brokenStore) Delete(ctx context.Context, callID string) error {
	return nil
}

func newTestController(store session.Store, booker Booker) *Controller {
	kb := knowledge.Default()
	e := newTestEngine(booker, Options{MaxRetries: 2})
	return NewController(store, e, e.understander, kb)
}

func TestController_WelcomeGreetsOnce(t *testing.T) {
	c := newTestController(session.NewMemoryStore(time.Minute), &fakeBooker{capacity: 10})
	ctx := context.Background()

	first := c.Welcome(ctx, Turn{CallID: "CA1"})
	assert.Equal(t, []string{"Bienvenue au Bistro Nova.", msgMenu}, first.Say)
	assert.Equal(t, ActionListen, first.Action)
	assert.Equal(t, ContinueMenuChoice, first.Next)
	assert.Equal(t, menuListen, first.Listen)

	second := c.Welcome(ctx, Turn{CallID: "CA1"})
	assert.Equal(t, []string{msgMenu}, second.Say)
}

func TestController_MenuChoice(t *testing.T) {
	hours, _ := knowledge.Default().Lookup(knowledge.TopicHours)
	pets, _ := knowledge.Default().Lookup(knowledge.TopicPets)

	testCases := []struct {
		name           string
		turn           Turn
		expectedAction Action
		expectedNext   Continuation
		expectedSay    []string
		expectedMode   entities.Mode
	}{
		{
			name:           "Key 1 starts a reservation",
			turn:           Turn{Digits: "1"},
			expectedAction: ActionRedirect,
			expectedNext:   ContinueReservation,
			expectedMode:   entities.ModeReservation,
		},
		{
			name:           "Key 2 reads the opening hours",
			turn:           Turn{Digits: "2"},
			expectedAction: ActionHangup,
			expectedSay:    []string{hours, msgGoodbye},
		},
		{
			name:           "Key 3 opens a question",
			turn:           Turn{Digits: "3"},
			expectedAction: ActionListen,
			expectedNext:   ContinueQuestion,
			expectedSay:    []string{msgAskQuestion},
			expectedMode:   entities.ModeQuestion,
		},
		{
			name:           "Spoken booking request",
			turn:           Turn{Utterance: "Je voudrais réserver une table"},
			expectedAction: ActionRedirect,
			expectedNext:   ContinueReservation,
			expectedMode:   entities.ModeReservation,
		},
		{
			name:           "Spoken question",
			turn:           Turn{Utterance: "Vous acceptez les chiens ?"},
			expectedAction: ActionRedirect,
			expectedNext:   ContinueMenu,
			expectedSay:    []string{pets, msgAnythingElse},
			expectedMode:   entities.ModeMenu,
		},
		{
			name:           "Unknown key",
			turn:           Turn{Digits: "7"},
			expectedAction: ActionRedirect,
			expectedNext:   ContinueMenu,
			expectedSay:    []string{msgMenuUnknown},
			expectedMode:   entities.ModeMenu,
		},
		{
			name:           "Unknown speech",
			turn:           Turn{Utterance: "banane"},
			expectedAction: ActionRedirect,
			expectedNext:   ContinueMenu,
			expectedSay:    []string{msgMenuUnknown},
			expectedMode:   entities.ModeMenu,
		},
		{
			name:           "Silence",
			turn:           Turn{},
			expectedAction: ActionRedirect,
			expectedNext:   ContinueMenu,
			expectedSay:    []string{msgMenuNoInput},
			expectedMode:   entities.ModeMenu,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := session.NewMemoryStore(time.Minute)
			c := newTestController(store, &fakeBooker{capacity: 10})
			tc.turn.CallID = "CA1"

			reply := c.MenuChoice(context.Background(), tc.turn)
			assert.Equal(t, tc.expectedAction, reply.Action)
			assert.Equal(t, tc.expectedNext, reply.Next)
			if tc.expectedSay != nil {
				assert.Equal(t, tc.expectedSay, reply.Say)
			}

			s, found, err := store.Get(context.Background(), "CA1")
			require.NoError(t, err)
			if tc.expectedAction == ActionHangup {
				assert.False(t, found, "session is dropped on hangup")
				return
			}
			require.True(t, found)
			assert.Equal(t, tc.expectedMode, s.Mode)
		})
	}
}

func TestController_MenuSilenceEndsCall(t *testing.T) {
	c := newTestController(session.NewMemoryStore(time.Minute), &fakeBooker{capacity: 10})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		reply := c.MenuChoice(ctx, Turn{CallID: "CA1"})
		require.Equal(t, ActionRedirect, reply.Action)
		c.Welcome(ctx, Turn{CallID: "CA1"})
	}

	reply := c.MenuChoice(ctx, Turn{CallID: "CA1"})
	assert.Equal(t, ActionHangup, reply.Action)
	assert.Equal(t, []string{msgGoodbye}, reply.Say)
}

func TestController_Question(t *testing.T) {
	wifi, _ := knowledge.Default().Lookup(knowledge.TopicWifi)
	contact, _ := knowledge.Default().Lookup(knowledge.TopicContact)
	ctx := context.Background()

	t.Run("Known question is answered", func(t *testing.T) {
		c := newTestController(session.NewMemoryStore(time.Minute), &fakeBooker{capacity: 10})
		reply := c.Question(ctx, Turn{CallID: "CA1", Utterance: "Avez-vous du wifi ?"})
		assert.Equal(t, ActionRedirect, reply.Action)
		assert.Equal(t, ContinueMenu, reply.Next)
		assert.Equal(t, []string{wifi, msgAnythingElse}, reply.Say)
	})

	t.Run("Booking request switches to reservation", func(t *testing.T) {
		c := newTestController(session.NewMemoryStore(time.Minute), &fakeBooker{capacity: 10})
		reply := c.Question(ctx, Turn{CallID: "CA1", Utterance: "Je veux réserver"})
		assert.Equal(t, ActionRedirect, reply.Action)
		assert.Equal(t, ContinueReservation, reply.Next)
	})

	t.Run("Silence goes back to the menu", func(t *testing.T) {
		c := newTestController(session.NewMemoryStore(time.Minute), &fakeBooker{capacity: 10})
		reply := c.Question(ctx, Turn{CallID: "CA1"})
		assert.Equal(t, ActionRedirect, reply.Action)
		assert.Equal(t, ContinueMenu, reply.Next)
		assert.Equal(t, []string{msgQuestionHeard}, reply.Say)
	})

	t.Run("Unknown questions end with the contact number", func(t *testing.T) {
		c := newTestController(session.NewMemoryStore(time.Minute), &fakeBooker{capacity: 10})
		for i := 0; i < 2; i++ {
			reply := c.Question(ctx, Turn{CallID: "CA1", Utterance: "Quelle est la couleur des murs ?"})
			require.Equal(t, ActionListen, reply.Action)
			assert.Equal(t, ContinueQuestion, reply.Next)
			assert.Equal(t, []string{msgQuestionAgain}, reply.Say)
		}

		reply := c.Question(ctx, Turn{CallID: "CA1", Utterance: "Quelle est la couleur des murs ?"})
		assert.Equal(t, ActionRedirect, reply.Action)
		assert.Equal(t, ContinueMenu, reply.Next)
		assert.Contains(t, reply.Say, contact)
	})
}

func TestController_InterleavedCallsStayIsolated(t *testing.T) {
	booker := &fakeBooker{capacity: 20}
	store := session.NewMemoryStore(time.Minute)
	c := newTestController(store, booker)
	ctx := context.Background()

	turns := []Turn{
		{CallID: "CA-A"},
		{CallID: "CA-B"},
		{CallID: "CA-A", Utterance: "deux"},
		{CallID: "CA-B", Utterance: "six personnes"},
		{CallID: "CA-A", Utterance: "demain"},
		{CallID: "CA-B", Utterance: "samedi"},
		{CallID: "CA-A", Utterance: "20h"},
		{CallID: "CA-B", Utterance: "12h15"},
		{CallID: "CA-A", Utterance: "au nom de Paul"},
		{CallID: "CA-B", Utterance: "Lucie Martin"},
		{CallID: "CA-B", Utterance: "un anniversaire"},
		{CallID: "CA-A", Utterance: "non merci"},
	}
	for _, turn := range turns {
		c.Reservation(ctx, turn)
	}

	require.Len(t, booker.requests, 2)
	byCall := map[string]entities.ReservationRequest{}
	for _, req := range booker.requests {
		byCall[req.CallID] = req
	}

	assert.Equal(t, entities.ReservationRequest{
		CallID: "CA-A", Name: "Paul", People: 2, Date: "2024-06-11", Time: "20:00",
	}, byCall["CA-A"])
	assert.Equal(t, entities.ReservationRequest{
		CallID: "CA-B", Name: "Lucie Martin", People: 6, Date: "2024-06-15", Time: "12:15", Notes: "un anniversaire",
	}, byCall["CA-B"])

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "both calls hung up after confirming")
}

func TestController_StoreFailure(t *testing.T) {
	c := newTestController(brokenStore{}, &fakeBooker{capacity: 10})

	reply := c.Reservation(context.Background(), Turn{CallID: "CA1", Utterance: "quatre"})
	assert.Equal(t, ActionHangup, reply.Action)
	assert.Equal(t, []string{msgTechnicalIssue}, reply.Say)
}

func TestController_End(t *testing.T) {
	store := session.NewMemoryStore(time.Minute)
	c := newTestController(store, &fakeBooker{capacity: 10})
	ctx := context.Background()

	c.Welcome(ctx, Turn{CallID: "CA1"})
	c.End(ctx, "CA1")

	_, found, err := store.Get(ctx, "CA1")
	require.NoError(t, err)
	assert.False(t, found)
}
