package http

import (
	"context"
	"time"

	"github.com/TronCM143/ISTAK/internal/domain/borrower"
	"github.com/TronCM143/ISTAK/internal/domain/item"
	"github.com/TronCM143/ISTAK/internal/domain/lending"
	"github.com/TronCM143/ISTAK/internal/domain/user"
)

// MockUserRepo implements user.Repository for testing
type MockUserRepo struct {
	CreateFunc         func(ctx context.Context, params user.CreateParams) (*user.User, error)
	GetByIDFunc        func(ctx context.Context, id int64) (*user.User, error)
	GetByUsernameFunc  func(ctx context.Context, username string) (*user.User, error)
	ListManagersFunc   func(ctx context.Context) ([]*user.User, error)
	UpdateFCMTokenFunc func(ctx context.Context, userID int64, token string) error
	ClearFCMTokenFunc  func(ctx context.Context, token string) error
}

func (m *MockUserRepo) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *MockUserRepo) ListManagers(ctx context.Context) ([]*user.User, error) {
	if m.ListManagersFunc != nil {
		return m.ListManagersFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserRepo) UpdateFCMToken(ctx context.Context, userID int64, token string) error {
	if m.UpdateFCMTokenFunc != nil {
		return m.UpdateFCMTokenFunc(ctx, userID, token)
	}
	return nil
}

func (m *MockUserRepo) ClearFCMToken(ctx context.Context, token string) error {
	if m.ClearFCMTokenFunc != nil {
		return m.ClearFCMTokenFunc(ctx, token)
	}
	return nil
}

// MockItemRepo implements item.Repository for testing
type MockItemRepo struct {
	CreateFunc          func(ctx context.Context, params item.CreateParams) (*item.Item, error)
	GetByIDFunc         func(ctx context.Context, id string) (*item.Item, error)
	ListByManagerIDFunc func(ctx context.Context, managerID int64) ([]*item.Item, error)
}

func (m *MockItemRepo) Create(ctx context.Context, params item.CreateParams) (*item.Item, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockItemRepo) GetByID(ctx context.Context, id string) (*item.Item, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockItemRepo) ListByManagerID(ctx context.Context, managerID int64) ([]*item.Item, error) {
	if m.ListByManagerIDFunc != nil {
		return m.ListByManagerIDFunc(ctx, managerID)
	}
	return nil, nil
}

// MockBorrowerRepo implements borrower.Repository for testing
type MockBorrowerRepo struct {
	UpsertFunc          func(ctx context.Context, params borrower.UpsertParams) (*borrower.Borrower, error)
	GetByIDFunc         func(ctx context.Context, id string) (*borrower.Borrower, error)
	ListByManagerIDFunc func(ctx context.Context, managerID int64) ([]*borrower.Borrower, error)
}

func (m *MockBorrowerRepo) Upsert(ctx context.Context, params borrower.UpsertParams) (*borrower.Borrower, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, params)
	}
	return &borrower.Borrower{ID: "b-1", Name: params.Name, SchoolID: params.SchoolID}, nil
}

func (m *MockBorrowerRepo) GetByID(ctx context.Context, id string) (*borrower.Borrower, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockBorrowerRepo) ListByManagerID(ctx context.Context, managerID int64) ([]*borrower.Borrower, error) {
	if m.ListByManagerIDFunc != nil {
		return m.ListByManagerIDFunc(ctx, managerID)
	}
	return nil, nil
}

// MockLoanRepo implements lending.Repository for testing
type MockLoanRepo struct {
	OpenLoanFunc          func(ctx context.Context, params lending.OpenLoanParams) (*lending.Transaction, error)
	CloseLoanFunc         func(ctx context.Context, params lending.CloseLoanParams) (*lending.Transaction, error)
	MarkOverdueFunc       func(ctx context.Context, asOf time.Time) (int64, error)
	ListDueOnFunc         func(ctx context.Context, date time.Time) ([]*lending.DueNotice, error)
	ListOverdueBeforeFunc func(ctx context.Context, date time.Time) ([]*lending.DueNotice, error)
	GetByIDFunc           func(ctx context.Context, id string) (*lending.Transaction, error)
	ListByScopeFunc       func(ctx context.Context, scope user.Scope) ([]*lending.Transaction, error)
	UnlinkFunc            func(ctx context.Context, id string) error
}

func (m *MockLoanRepo) OpenLoan(ctx context.Context, params lending.OpenLoanParams) (*lending.Transaction, error) {
	if m.OpenLoanFunc != nil {
		return m.OpenLoanFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockLoanRepo) CloseLoan(ctx context.Context, params lending.CloseLoanParams) (*lending.Transaction, error) {
	if m.CloseLoanFunc != nil {
		return m.CloseLoanFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockLoanRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	if m.MarkOverdueFunc != nil {
		return m.MarkOverdueFunc(ctx, asOf)
	}
	return 0, nil
}

func (m *MockLoanRepo) ListDueOn(ctx context.Context, date time.Time) ([]*lending.DueNotice, error) {
	if m.ListDueOnFunc != nil {
		return m.ListDueOnFunc(ctx, date)
	}
	return nil, nil
}

func (m *MockLoanRepo) ListOverdueBefore(ctx context.Context, date time.Time) ([]*lending.DueNotice, error) {
	if m.ListOverdueBeforeFunc != nil {
		return m.ListOverdueBeforeFunc(ctx, date)
	}
	return nil, nil
}

func (m *MockLoanRepo) GetByID(ctx context.Context, id string) (*lending.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockLoanRepo) ListByScope(ctx context.Context, scope user.Scope) ([]*lending.Transaction, error) {
	if m.ListByScopeFunc != nil {
		return m.ListByScopeFunc(ctx, scope)
	}
	return nil, nil
}

func (m *MockLoanRepo) Unlink(ctx context.Context, id string) error {
	if m.UnlinkFunc != nil {
		return m.UnlinkFunc(ctx, id)
	}
	return nil
}
