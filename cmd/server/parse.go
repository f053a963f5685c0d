package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"restoivr/internal/knowledge"
	"restoivr/internal/parse"
)

// newParseCmd runs every utterance parser on one sentence, for tuning the
// rules against real transcripts.
func newParseCmd() *cobra.Command {
	var (
		now      string
		maxParty int
	)

	c := &cobra.Command{
		Use:   "parse [utterance]",
		Short: "Show what the parsers read in an utterance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			clock := time.Now()
			if now != "" {
				t, err := time.Parse(parse.DateLayout, now)
				if err != nil {
					return fmt.Errorf("invalid --now (want YYYY-MM-DD): %w", err)
				}
				clock = t
			}

			out := cmd.OutOrStdout()
			show := func(label, value string, ok bool) {
				if !ok {
					value = "-"
				}
				fmt.Fprintf(out, "%-8s %s\n", label, value)
			}

			people, ok := parse.People(text, maxParty)
			show("people", fmt.Sprint(people), ok)
			date, ok := parse.Date(text, clock)
			show("date", date, ok)
			hhmm, ok := parse.Time(text)
			show("time", hhmm, ok)
			name, ok := parse.Name(text)
			show("name", name, ok)
			phone, ok := parse.Phone("", text)
			show("phone", phone, ok)
			show("notes", parse.Notes(text), true)

			kb := knowledge.Default()
			entry, ok := kb.Match(text)
			show("faq", string(entry.Topic), ok)
			show("booking", fmt.Sprint(kb.IsReservationIntent(text)), true)
			return nil
		},
	}

	c.Flags().StringVar(&now, "now", "", "reference date YYYY-MM-DD (default today)")
	c.Flags().IntVar(&maxParty, "max-party", parse.DefaultMaxParty, "largest party size accepted")
	return c
}
