package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TronCM143/ISTAK/internal/domain/item"
	"github.com/TronCM143/ISTAK/internal/domain/user"
)

func itemHandlerWith(items *MockItemRepo, caller *user.User) *ItemHandler {
	return NewItemHandler(item.NewService(items), NewScopeResolver(userRepoFor(caller)))
}

func TestHandleItems_List(t *testing.T) {
	caller := managerUser()
	items := &MockItemRepo{
		ListByManagerIDFunc: func(ctx context.Context, managerID int64) ([]*item.Item, error) {
			if managerID != 1 {
				t.Errorf("listed manager %d, want 1", managerID)
			}
			return []*item.Item{{ID: "item-1", Name: "Microscope", ManagerID: managerID}}, nil
		},
	}
	handler := itemHandlerWith(items, caller)

	req := authedRequest(http.MethodGet, "/api/items/", "", caller)
	rr := httptest.NewRecorder()

	handler.HandleItems(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Microscope") {
		t.Errorf("response missing item: %s", rr.Body.String())
	}
}

func TestHandleItems_MobileSeesManagerPool(t *testing.T) {
	caller := mobileUser()
	items := &MockItemRepo{
		ListByManagerIDFunc: func(ctx context.Context, managerID int64) ([]*item.Item, error) {
			if managerID != 1 {
				t.Errorf("mobile user listed manager %d, want assigned manager 1", managerID)
			}
			return nil, nil
		},
	}
	handler := itemHandlerWith(items, caller)

	req := authedRequest(http.MethodGet, "/api/items/", "", caller)
	rr := httptest.NewRecorder()

	handler.HandleItems(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Errorf("expected empty array, got %s", body)
	}
}

func TestHandleItems_CreateManagerOnly(t *testing.T) {
	caller := mobileUser()
	handler := itemHandlerWith(&MockItemRepo{}, caller)

	req := authedRequest(http.MethodPost, "/api/items/", `{"name":"Beaker"}`, caller)
	rr := httptest.NewRecorder()

	handler.HandleItems(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
}

func TestHandleItems_Create(t *testing.T) {
	caller := managerUser()
	items := &MockItemRepo{
		CreateFunc: func(ctx context.Context, params item.CreateParams) (*item.Item, error) {
			if params.ManagerID != 1 {
				t.Errorf("created with manager %d, want 1", params.ManagerID)
			}
			return &item.Item{ID: "item-9", Name: params.Name, Status: item.StatusAvailable, ManagerID: params.ManagerID}, nil
		},
	}
	handler := itemHandlerWith(items, caller)

	req := authedRequest(http.MethodPost, "/api/items/", `{"name":"Beaker","condition":"Good"}`, caller)
	rr := httptest.NewRecorder()

	handler.HandleItems(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestHandleItemByID_ScopeEnforced(t *testing.T) {
	caller := managerUser()
	items := &MockItemRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*item.Item, error) {
			return &item.Item{ID: id, Name: "Foreign", ManagerID: 42}, nil
		},
	}
	handler := itemHandlerWith(items, caller)

	req := authedRequest(http.MethodGet, "/api/items/item-1", "", caller)
	req.SetPathValue("id", "item-1")
	rr := httptest.NewRecorder()

	handler.HandleItemByID(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
}

func TestHandleItemByID_NotFound(t *testing.T) {
	caller := managerUser()
	items := &MockItemRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*item.Item, error) {
			return nil, nil
		},
	}
	handler := itemHandlerWith(items, caller)

	req := authedRequest(http.MethodGet, "/api/items/missing", "", caller)
	req.SetPathValue("id", "missing")
	rr := httptest.NewRecorder()

	handler.HandleItemByID(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}
