package lending

import (
	"errors"
	"strings"
	"time"
)

// Transaction statuses. A transaction is open while borrowed or overdue;
// closing a loan transitions the status rather than deleting the row, so
// loan history is retained.
const (
	StatusBorrowed = "borrowed"
	StatusReturned = "returned"
	StatusOverdue  = "overdue"
)

// Conditions an item may be returned in.
var validConditions = map[string]struct{}{
	"Good":    {},
	"Fair":    {},
	"Damaged": {},
	"Broken":  {},
}

// IsValidCondition reports whether c is one of the accepted return grades.
func IsValidCondition(c string) bool {
	_, ok := validConditions[c]
	return ok
}

// Domain errors. Business-rule violations are returned as typed values and
// matched with errors.Is; only infrastructure faults pass through opaque.
var (
	ErrItemNotFound        = errors.New("item not found")
	ErrItemNotOwned        = errors.New("item not managed by caller's manager")
	ErrItemAlreadyBorrowed = errors.New("item already has an open transaction")
	ErrInvalidDueDate      = errors.New("due date must not be in the past")
	ErrNoOpenTransaction   = errors.New("item has no open transaction")
	ErrInvalidCondition    = errors.New("condition must be one of Good, Fair, Damaged, Broken")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Transaction represents one loan episode of one item to one borrower.
// ReturnDate holds the due date while the transaction is open and the
// actual return date once it is closed, matching the source data model.
type Transaction struct {
	ID           string     `json:"id"`
	BorrowDate   time.Time  `json:"borrowDate"`
	ReturnDate   *time.Time `json:"returnDate,omitempty"`
	Status       string     `json:"status"`
	ManagerID    int64      `json:"managerId"`
	MobileUserID int64      `json:"mobileUserId"`
	ItemID       string     `json:"itemId"`
	BorrowerID   *string    `json:"borrowerId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Open reports whether the loan is still out (borrowed or overdue).
func (t *Transaction) Open() bool {
	return t.Status == StatusBorrowed || t.Status == StatusOverdue
}

// BorrowParams are the caller-supplied inputs for opening a loan.
type BorrowParams struct {
	ItemID       string
	BorrowerName string
	SchoolID     *string
	DueDate      time.Time
}

func (p BorrowParams) Validate(today time.Time) error {
	if strings.TrimSpace(p.ItemID) == "" {
		return ErrItemNotFound
	}
	if strings.TrimSpace(p.BorrowerName) == "" {
		return errors.New("borrower name is required")
	}
	if DateOf(p.DueDate).Before(DateOf(today)) {
		return ErrInvalidDueDate
	}
	return nil
}

// ReturnParams are the caller-supplied inputs for closing a loan.
type ReturnParams struct {
	ItemID    string
	Condition string
}

func (p ReturnParams) Validate() error {
	if strings.TrimSpace(p.ItemID) == "" {
		return ErrItemNotFound
	}
	if !IsValidCondition(p.Condition) {
		return ErrInvalidCondition
	}
	return nil
}

// DueNotice is a read-model row for the due/overdue notifier: one open
// transaction joined with the data needed to address a push message.
type DueNotice struct {
	TransactionID string
	ItemName      string
	BorrowerName  string
	SchoolID      *string
	DueDate       time.Time
	MobileUserID  int64
	FCMToken      *string
}

// DateOf truncates t to its calendar date in UTC. Borrow and due dates are
// date-granular throughout the engine.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
