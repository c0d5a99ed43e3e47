package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/TronCM143/ISTAK/internal/domain/lending"
)

// OverdueSweepJob transitions borrowed loans past their due date to overdue.
type OverdueSweepJob struct {
	overdue *lending.OverdueService
}

func NewOverdueSweepJob(overdue *lending.OverdueService) *OverdueSweepJob {
	return &OverdueSweepJob{overdue: overdue}
}

func (j *OverdueSweepJob) Execute(ctx context.Context) error {
	count, err := j.overdue.SweepOverdue(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}
	log.Printf("Overdue sweep marked %d transaction(s)", count)
	return nil
}

func (j *OverdueSweepJob) Name() string { return "overdue_sweep" }

func (j *OverdueSweepJob) Description() string {
	return "Overdue sweep of borrowed transactions"
}

// DueNotificationJob pushes reminders for loans due today and loans already
// overdue.
type DueNotificationJob struct {
	overdue *lending.OverdueService
}

func NewDueNotificationJob(overdue *lending.OverdueService) *DueNotificationJob {
	return &DueNotificationJob{overdue: overdue}
}

func (j *DueNotificationJob) Execute(ctx context.Context) error {
	if err := j.overdue.NotifyDue(ctx, time.Now()); err != nil {
		return fmt.Errorf("due notification batch failed: %w", err)
	}
	return nil
}

func (j *DueNotificationJob) Name() string { return "due_notification" }

func (j *DueNotificationJob) Description() string {
	return "Due and overdue reminder notifications"
}

// LendingJobProvider returns the daily batch: the sweep first, then the
// notification pass so reminders see the post-sweep statuses.
func LendingJobProvider(overdue *lending.OverdueService) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		return []Job{
			NewDailyLendingJob(overdue),
		}, nil
	}
}

// DailyLendingJob is a composite job that runs the overdue sweep before the
// notification batch. Keeping both in one job guarantees ordering even with
// multiple workers.
type DailyLendingJob struct {
	sweep  *OverdueSweepJob
	notify *DueNotificationJob
}

func NewDailyLendingJob(overdue *lending.OverdueService) *DailyLendingJob {
	return &DailyLendingJob{
		sweep:  NewOverdueSweepJob(overdue),
		notify: NewDueNotificationJob(overdue),
	}
}

func (j *DailyLendingJob) Execute(ctx context.Context) error {
	if err := j.sweep.Execute(ctx); err != nil {
		return fmt.Errorf("sweep failed, skipping notifications: %w", err)
	}
	if err := j.notify.Execute(ctx); err != nil {
		return fmt.Errorf("notification batch failed: %w", err)
	}
	return nil
}

func (j *DailyLendingJob) Name() string { return "daily_lending" }

func (j *DailyLendingJob) Description() string {
	return "Daily overdue sweep and reminder batch"
}
