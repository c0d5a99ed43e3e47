package lending

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/TronCM143/ISTAK/internal/domain/notification"
)

// OverdueService runs the scheduled batch work: reclassifying stale loans
// as overdue and pushing due/overdue notices. It has no caller identity
// and never serves interactive requests.
type OverdueService struct {
	loans     Repository
	messenger notification.Messenger
}

// NewOverdueService creates the batch service. messenger may be nil when
// no push transport is configured; the sweep still runs.
func NewOverdueService(loans Repository, messenger notification.Messenger) *OverdueService {
	return &OverdueService{loans: loans, messenger: messenger}
}

// SweepOverdue transitions every borrowed transaction whose due date is
// strictly before asOf to overdue and returns the count. Idempotent: rows
// already overdue or returned are never matched, so a retry after partial
// failure is safe.
func (s *OverdueService) SweepOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	count, err := s.loans.MarkOverdue(ctx, DateOf(asOf))
	if err != nil {
		return 0, fmt.Errorf("overdue sweep failed: %w", err)
	}
	return count, nil
}

// NotifyDue pushes a notice for every open transaction due exactly today
// and every open transaction past its due date. Read-only with respect to
// transaction state; delivery failures are logged and skipped and never
// abort the batch.
func (s *OverdueService) NotifyDue(ctx context.Context, today time.Time) error {
	if s.messenger == nil {
		return nil
	}
	day := DateOf(today)

	due, err := s.loans.ListDueOn(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to list due transactions: %w", err)
	}
	for _, n := range due {
		s.push(ctx, n, "Item Due Today",
			fmt.Sprintf("%s must return '%s' today.", noticeSubject(n), n.ItemName))
	}

	overdue, err := s.loans.ListOverdueBefore(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to list overdue transactions: %w", err)
	}
	for _, n := range overdue {
		days := int(day.Sub(DateOf(n.DueDate)).Hours() / 24)
		s.push(ctx, n, "Overdue Item",
			fmt.Sprintf("%s hasn't returned '%s' for %d day(s) now.", noticeSubject(n), n.ItemName, days))
	}

	return nil
}

func (s *OverdueService) push(ctx context.Context, n *DueNotice, title, body string) {
	if n.FCMToken == nil || *n.FCMToken == "" {
		log.Printf("Skipping notice for transaction %s: user %d has no device token", n.TransactionID, n.MobileUserID)
		return
	}
	if err := s.messenger.Send(ctx, *n.FCMToken, title, body, map[string]string{
		"transactionId": n.TransactionID,
	}); err != nil {
		log.Printf("Failed to push notice for transaction %s to user %d: %v", n.TransactionID, n.MobileUserID, err)
	}
}

func noticeSubject(n *DueNotice) string {
	if n.SchoolID != nil && *n.SchoolID != "" {
		return fmt.Sprintf("School ID: %s", *n.SchoolID)
	}
	return n.BorrowerName
}
