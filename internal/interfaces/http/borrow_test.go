package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/TronCM143/ISTAK/internal/domain/item"
	"github.com/TronCM143/ISTAK/internal/domain/lending"
	"github.com/TronCM143/ISTAK/internal/domain/user"
	"github.com/TronCM143/ISTAK/internal/shared/middleware"
)

func mobileUser() *user.User {
	managerID := int64(1)
	return &user.User{ID: 2, Username: "scanner", Role: user.RoleMobile, ManagerID: &managerID}
}

func managerUser() *user.User {
	return &user.User{ID: 1, Username: "boss", Role: user.RoleManager}
}

func userRepoFor(u *user.User) *MockUserRepo {
	return &MockUserRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*user.User, error) {
			if id == u.ID {
				return u, nil
			}
			return nil, nil
		},
	}
}

func authedRequest(method, target, body string, u *user.User) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, u.ID)
	ctx = context.WithValue(ctx, middleware.RoleKey, u.Role)
	return req.WithContext(ctx)
}

func borrowHandlerWith(items *MockItemRepo, loans *MockLoanRepo, caller *user.User) *BorrowHandler {
	svc := lending.NewService(items, &MockBorrowerRepo{}, loans, nil)
	return NewBorrowHandler(svc, NewScopeResolver(userRepoFor(caller)))
}

func availableTestItem() *item.Item {
	return &item.Item{ID: "item-1", Name: "Microscope", Status: item.StatusAvailable, ManagerID: 1}
}

func TestHandleBorrow_Success(t *testing.T) {
	caller := mobileUser()
	items := &MockItemRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*item.Item, error) {
			return availableTestItem(), nil
		},
	}
	loans := &MockLoanRepo{
		OpenLoanFunc: func(ctx context.Context, params lending.OpenLoanParams) (*lending.Transaction, error) {
			return &lending.Transaction{ID: "tx-1", ItemID: params.ItemID, Status: lending.StatusBorrowed}, nil
		},
	}
	handler := borrowHandlerWith(items, loans, caller)

	due := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	req := authedRequest(http.MethodPost, "/api/items/item-1/borrow",
		`{"borrowerName":"Ana","schoolId":"2021-001","dueDate":"`+due+`"}`, caller)
	req.SetPathValue("id", "item-1")
	rr := httptest.NewRecorder()

	handler.HandleBorrow(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "tx-1") {
		t.Errorf("response missing transaction: %s", rr.Body.String())
	}
}

func TestHandleBorrow_ManagerForbidden(t *testing.T) {
	caller := managerUser()
	handler := borrowHandlerWith(&MockItemRepo{}, &MockLoanRepo{}, caller)

	req := authedRequest(http.MethodPost, "/api/items/item-1/borrow",
		`{"borrowerName":"Ana","dueDate":"2030-01-01"}`, caller)
	req.SetPathValue("id", "item-1")
	rr := httptest.NewRecorder()

	handler.HandleBorrow(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
}

func TestHandleBorrow_Conflict(t *testing.T) {
	caller := mobileUser()
	items := &MockItemRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*item.Item, error) {
			return availableTestItem(), nil
		},
	}
	loans := &MockLoanRepo{
		OpenLoanFunc: func(ctx context.Context, params lending.OpenLoanParams) (*lending.Transaction, error) {
			return nil, lending.ErrItemAlreadyBorrowed
		},
	}
	handler := borrowHandlerWith(items, loans, caller)

	due := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	req := authedRequest(http.MethodPost, "/api/items/item-1/borrow",
		`{"borrowerName":"Ana","dueDate":"`+due+`"}`, caller)
	req.SetPathValue("id", "item-1")
	rr := httptest.NewRecorder()

	handler.HandleBorrow(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rr.Code)
	}
}

func TestHandleBorrow_PastDueDate(t *testing.T) {
	caller := mobileUser()
	handler := borrowHandlerWith(&MockItemRepo{}, &MockLoanRepo{}, caller)

	req := authedRequest(http.MethodPost, "/api/items/item-1/borrow",
		`{"borrowerName":"Ana","dueDate":"2020-01-01"}`, caller)
	req.SetPathValue("id", "item-1")
	rr := httptest.NewRecorder()

	handler.HandleBorrow(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestHandleBorrow_ItemNotFound(t *testing.T) {
	caller := mobileUser()
	items := &MockItemRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*item.Item, error) {
			return nil, nil
		},
	}
	handler := borrowHandlerWith(items, &MockLoanRepo{}, caller)

	due := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	req := authedRequest(http.MethodPost, "/api/items/missing/borrow",
		`{"borrowerName":"Ana","dueDate":"`+due+`"}`, caller)
	req.SetPathValue("id", "missing")
	rr := httptest.NewRecorder()

	handler.HandleBorrow(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestHandleReturn_Success(t *testing.T) {
	caller := mobileUser()
	items := &MockItemRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*item.Item, error) {
			txID := "tx-1"
			it := availableTestItem()
			it.CurrentTransactionID = &txID
			it.Status = item.StatusBorrowed
			return it, nil
		},
	}
	loans := &MockLoanRepo{
		CloseLoanFunc: func(ctx context.Context, params lending.CloseLoanParams) (*lending.Transaction, error) {
			return &lending.Transaction{ID: "tx-1", ItemID: params.ItemID, Status: lending.StatusReturned}, nil
		},
	}
	handler := borrowHandlerWith(items, loans, caller)

	req := authedRequest(http.MethodPost, "/api/items/item-1/return",
		`{"condition":"Good"}`, caller)
	req.SetPathValue("id", "item-1")
	rr := httptest.NewRecorder()

	handler.HandleReturn(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "returned") {
		t.Errorf("response missing returned status: %s", rr.Body.String())
	}
}

func TestHandleReturn_InvalidCondition(t *testing.T) {
	caller := mobileUser()
	handler := borrowHandlerWith(&MockItemRepo{}, &MockLoanRepo{}, caller)

	req := authedRequest(http.MethodPost, "/api/items/item-1/return",
		`{"condition":"Pristine"}`, caller)
	req.SetPathValue("id", "item-1")
	rr := httptest.NewRecorder()

	handler.HandleReturn(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestHandleReturn_NoOpenTransaction(t *testing.T) {
	caller := mobileUser()
	items := &MockItemRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*item.Item, error) {
			return availableTestItem(), nil
		},
	}
	loans := &MockLoanRepo{
		CloseLoanFunc: func(ctx context.Context, params lending.CloseLoanParams) (*lending.Transaction, error) {
			return nil, lending.ErrNoOpenTransaction
		},
	}
	handler := borrowHandlerWith(items, loans, caller)

	req := authedRequest(http.MethodPost, "/api/items/item-1/return",
		`{"condition":"Good"}`, caller)
	req.SetPathValue("id", "item-1")
	rr := httptest.NewRecorder()

	handler.HandleReturn(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rr.Code)
	}
}
