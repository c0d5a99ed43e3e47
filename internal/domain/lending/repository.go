package lending

import (
	"context"
	"time"

	"github.com/TronCM143/ISTAK/internal/domain/user"
)

// OpenLoanParams describes the row created when a loan is opened.
type OpenLoanParams struct {
	ItemID       string
	BorrowerID   string
	ManagerID    int64
	MobileUserID int64
	BorrowDate   time.Time
	DueDate      time.Time
}

// CloseLoanParams describes the mutation applied when a loan is closed.
type CloseLoanParams struct {
	ItemID     string
	Condition  string
	ReturnDate time.Time
}

// Repository is the lending store. OpenLoan and CloseLoan are the two
// atomic units of the state machine: the store must guarantee that the
// open-transaction check and the item link/unlink commit together, so two
// concurrent OpenLoan calls on the same item can never both succeed.
//
// OpenLoan returns ErrItemAlreadyBorrowed when the item already has an open
// transaction; CloseLoan returns ErrNoOpenTransaction when it has none.
type Repository interface {
	OpenLoan(ctx context.Context, params OpenLoanParams) (*Transaction, error)
	CloseLoan(ctx context.Context, params CloseLoanParams) (*Transaction, error)

	// MarkOverdue transitions every transaction with status=borrowed and a
	// due date strictly before asOf to status=overdue, as one set-based
	// update. Returns the number of rows transitioned.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)

	// ListDueOn returns notices for open transactions due exactly on date;
	// ListOverdueBefore for open transactions due strictly before date.
	ListDueOn(ctx context.Context, date time.Time) ([]*DueNotice, error)
	ListOverdueBefore(ctx context.Context, date time.Time) ([]*DueNotice, error)

	GetByID(ctx context.Context, id string) (*Transaction, error)
	ListByScope(ctx context.Context, scope user.Scope) ([]*Transaction, error)

	// Unlink detaches a transaction from its item (clearing the open
	// pointer if it is the current one) and removes the row. Reserved for
	// manager-initiated corrections, never used by normal loan closing.
	Unlink(ctx context.Context, id string) error
}
