package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"restoivr/internal/db"
	"restoivr/internal/parse"
	"restoivr/internal/session"
)

type PastReservationStore interface {
	GetConfirmedReservationIDsBefore(ctx context.Context, day string) ([]int, error)
	UpdateReservationStatuses(ctx context.Context, ids []int, newStatus string) (int64, error)
}

const (
	sessionSweepSpec  = "@every 1m"
	finishPastResSpec = "15 3 * * *"
)

// JobService runs the periodic housekeeping of the server.
type JobService struct {
	Repo     PastReservationStore
	sessions session.Store
	cron     *cron.Cron
	loc      *time.Location
	now      func() time.Time
}

func NewJobService(repo PastReservationStore, sessions session.Store, loc *time.Location) *JobService {
	if loc == nil {
		loc = time.Local
	}
	return &JobService{
		Repo:     repo,
		sessions: sessions,
		cron:     cron.New(cron.WithLocation(loc)),
		loc:      loc,
		now:      time.Now,
	}
}

// UpdateFinishedReservations marks confirmed reservations of past days as finished.
func (s *JobService) UpdateFinishedReservations(ctx context.Context) error {
	today := s.now().In(s.loc).Format(parse.DateLayout)

	ids, err := s.Repo.GetConfirmedReservationIDsBefore(ctx, today)
	if err != nil {
		return fmt.Errorf("cron job: failed to get past reservations: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	n, err := s.Repo.UpdateReservationStatuses(ctx, ids, db.StatusFinished)
	if err != nil {
		return fmt.Errorf("cron job: failed to update reservation statuses: %w", err)
	}
	log.Printf("Cron Job: marked %d reservations before %s as '%s'", n, today, db.StatusFinished)
	return nil
}

// EvictIdleSessions drops call sessions nobody touched within the idle timeout.
func (s *JobService) EvictIdleSessions(ctx context.Context) (int, error) {
	n, err := s.sessions.Evict(ctx)
	if err != nil {
		return 0, fmt.Errorf("cron job: session sweep failed: %w", err)
	}
	if n > 0 {
		log.Printf("Cron Job: evicted %d idle call sessions", n)
	}
	return n, nil
}

// Start schedules the jobs and starts the cron runner.
func (s *JobService) Start() error {
	if _, err := s.cron.AddFunc(sessionSweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.EvictIdleSessions(ctx); err != nil {
			log.Println(err)
		}
	}); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}

	if s.Repo != nil {
		if _, err := s.cron.AddFunc(finishPastResSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := s.UpdateFinishedReservations(ctx); err != nil {
				log.Println(err)
			}
		}); err != nil {
			return fmt.Errorf("schedule reservation job: %w", err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling; the returned context is done once running jobs end.
func (s *JobService) Stop() context.Context {
	return s.cron.Stop()
}
