package db

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/jobtrack/jobtrack/internal/datetz"
	"github.com/jobtrack/jobtrack/internal/domain"
)

// Snapshot is everything the dashboard aggregates are computed from.
type Snapshot struct {
	Profile      *domain.Profile
	Applications []domain.Application
	Tasks        []domain.Task
	Interviews   []domain.InterviewRound
}

// DashboardSnapshot loads the user's profile and records concurrently.
// A user without a profile row gets the default zone and no goals.
func (db *DB) DashboardSnapshot(ctx context.Context, userID string) (*Snapshot, error) {
	snap := &Snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := db.GetProfile(ctx, userID)
		if errors.Is(err, ErrNotFound) {
			p, err = &domain.Profile{ID: userID, TimeZone: datetz.EnsureZone("")}, nil
		}
		snap.Profile = p
		return err
	})
	g.Go(func() error {
		apps, err := db.ListApplications(ctx, userID)
		snap.Applications = apps
		return err
	})
	g.Go(func() error {
		tasks, err := db.ListTasks(ctx, userID, "")
		snap.Tasks = tasks
		return err
	})
	g.Go(func() error {
		rounds, err := db.ListInterviews(ctx, userID)
		snap.Interviews = rounds
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
