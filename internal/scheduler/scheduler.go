package scheduler

import (
	"context"
	"time"

	"github.com/budgetbot/budgetbot/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Job func(ctx context.Context)

// Daily invokes a job once per calendar day at a fixed local time. Each run
// completes before the next one is scheduled, so runs can never overlap.
type Daily struct {
	clock    utils.Clock
	hour     int
	minute   int
	location *time.Location
}

func NewDaily(clock utils.Clock, hour, minute int, location *time.Location) *Daily {
	return &Daily{clock: clock, hour: hour, minute: minute, location: location}
}

// Run blocks until the context is cancelled.
func (d *Daily) Run(ctx context.Context, job Job) {
	for {
		next := d.nextRun(d.clock.Now())
		log.Infof("next daily run scheduled for %s", next)

		timer := time.NewTimer(next.Sub(d.clock.Now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			job(ctx)
		}
	}
}

// nextRun returns the first instant strictly after now that falls on the
// configured time of day.
func (d *Daily) nextRun(now time.Time) time.Time {
	now = now.In(d.location)
	next := time.Date(now.Year(), now.Month(), now.Day(), d.hour, d.minute, 0, 0, d.location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
