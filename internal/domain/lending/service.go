package lending

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/TronCM143/ISTAK/internal/domain/borrower"
	"github.com/TronCM143/ISTAK/internal/domain/item"
	"github.com/TronCM143/ISTAK/internal/domain/user"
)

// Notifier delivers a best-effort push message to a user's registered
// device. Implemented by the notification service; a failed delivery never
// fails the borrow/return that triggered it.
type Notifier interface {
	SendToUser(ctx context.Context, userID int64, title, body string) error
}

// Service is the borrowing transaction engine. It validates requests,
// applies the caller's tenant scope, and drives the per-item state machine
// through the lending store's atomic operations.
type Service struct {
	items     item.Repository
	borrowers borrower.Repository
	loans     Repository
	notifier  Notifier
}

// NewService creates a new lending service. notifier may be nil when no
// push transport is configured.
func NewService(items item.Repository, borrowers borrower.Repository, loans Repository, notifier Notifier) *Service {
	return &Service{items: items, borrowers: borrowers, loans: loans, notifier: notifier}
}

// BorrowResult is returned on a successful borrow.
type BorrowResult struct {
	Transaction *Transaction       `json:"transaction"`
	Borrower    *borrower.Borrower `json:"borrower"`
}

// ReturnResult is returned on a successful return.
type ReturnResult struct {
	Transaction *Transaction `json:"transaction"`
	Condition   string       `json:"condition"`
}

// Borrow opens a loan for an item in the caller's scope. The borrower is
// resolved get-or-create by (name, school ID); the transaction row and the
// item's open-transaction pointer are created as one atomic unit, so a
// concurrent borrow of the same item fails with ErrItemAlreadyBorrowed.
func (s *Service) Borrow(ctx context.Context, scope user.Scope, params BorrowParams) (*BorrowResult, error) {
	now := time.Now()
	if err := params.Validate(now); err != nil {
		return nil, err
	}

	it, err := s.items.GetByID(ctx, params.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}
	if it == nil {
		return nil, ErrItemNotFound
	}
	if it.ManagerID != scope.ManagerID {
		return nil, ErrItemNotOwned
	}
	if !it.Available() {
		return nil, ErrItemAlreadyBorrowed
	}

	b, err := s.borrowers.Upsert(ctx, borrower.UpsertParams{
		Name:     params.BorrowerName,
		SchoolID: params.SchoolID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve borrower: %w", err)
	}

	// The availability check above is advisory only; the store re-checks
	// it inside the same transaction that links the item.
	tx, err := s.loans.OpenLoan(ctx, OpenLoanParams{
		ItemID:       it.ID,
		BorrowerID:   b.ID,
		ManagerID:    scope.ManagerID,
		MobileUserID: scope.UserID,
		BorrowDate:   DateOf(now),
		DueDate:      DateOf(params.DueDate),
	})
	if err != nil {
		return nil, err
	}

	return &BorrowResult{Transaction: tx, Borrower: b}, nil
}

// Return closes the open loan on an item in the caller's scope, records
// the returned condition on the item, and notifies the acting user's
// device. Works whether the loan is borrowed or already overdue.
func (s *Service) Return(ctx context.Context, scope user.Scope, params ReturnParams) (*ReturnResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	it, err := s.items.GetByID(ctx, params.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}
	if it == nil {
		return nil, ErrItemNotFound
	}
	if it.ManagerID != scope.ManagerID {
		return nil, ErrItemNotOwned
	}

	tx, err := s.loans.CloseLoan(ctx, CloseLoanParams{
		ItemID:     it.ID,
		Condition:  params.Condition,
		ReturnDate: DateOf(time.Now()),
	})
	if err != nil {
		return nil, err
	}

	s.notifyReturn(scope.UserID, it.Name, params.Condition)

	return &ReturnResult{Transaction: tx, Condition: params.Condition}, nil
}

// notifyReturn fires the return notice without blocking the caller.
func (s *Service) notifyReturn(userID int64, itemName, condition string) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		body := fmt.Sprintf("You returned %s in %s condition", itemName, condition)
		if err := s.notifier.SendToUser(ctx, userID, "Return Successful", body); err != nil {
			log.Printf("Failed to send return notification to user %d: %v", userID, err)
		}
	}()
}

// GetTransaction retrieves one transaction visible to the caller's scope.
func (s *Service) GetTransaction(ctx context.Context, scope user.Scope, id string) (*Transaction, error) {
	tx, err := s.loans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}
	if !s.visible(scope, tx) {
		return nil, ErrTransactionNotFound
	}
	return tx, nil
}

// ListTransactions returns the transactions visible to the caller's scope:
// all of the manager's pool for managers, the caller's own for mobile users.
func (s *Service) ListTransactions(ctx context.Context, scope user.Scope) ([]*Transaction, error) {
	return s.loans.ListByScope(ctx, scope)
}

// DeleteTransaction removes a transaction as a manager-initiated
// correction, unlinking it from its item first. Normal loan closing never
// deletes rows.
func (s *Service) DeleteTransaction(ctx context.Context, scope user.Scope, id string) error {
	if !scope.IsManager() {
		return ErrTransactionNotFound
	}
	tx, err := s.GetTransaction(ctx, scope, id)
	if err != nil {
		return err
	}
	return s.loans.Unlink(ctx, tx.ID)
}

func (s *Service) visible(scope user.Scope, tx *Transaction) bool {
	if scope.IsManager() {
		return tx.ManagerID == scope.ManagerID
	}
	return tx.MobileUserID == scope.UserID
}
