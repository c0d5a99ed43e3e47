package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/TronCM143/ISTAK/internal/domain/lending"
)

// BorrowHandler serves the borrow and return endpoints of the lending
// state machine.
type BorrowHandler struct {
	lending *lending.Service
	scopes  *ScopeResolver
}

func NewBorrowHandler(lendingService *lending.Service, scopes *ScopeResolver) *BorrowHandler {
	return &BorrowHandler{lending: lendingService, scopes: scopes}
}

type BorrowRequest struct {
	BorrowerName string  `json:"borrowerName"`
	SchoolID     *string `json:"schoolId,omitempty"`
	DueDate      string  `json:"dueDate"`
}

type ReturnRequest struct {
	Condition string `json:"condition"`
}

// HandleBorrow opens a loan on an item. Borrowing is performed from the
// mobile app on behalf of a borrower; manager accounts are rejected.
func (h *BorrowHandler) HandleBorrow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	scope, ok := h.scopes.resolveScope(w, r)
	if !ok {
		return
	}
	if scope.IsManager() {
		http.Error(w, "Borrowing requires a mobile account", http.StatusForbidden)
		return
	}

	itemID := r.PathValue("id")
	if itemID == "" {
		http.Error(w, "Item ID is required", http.StatusBadRequest)
		return
	}

	var req BorrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.BorrowerName == "" {
		http.Error(w, "Borrower name is required", http.StatusBadRequest)
		return
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		http.Error(w, "Invalid due date (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	result, err := h.lending.Borrow(r.Context(), scope, lending.BorrowParams{
		ItemID:       itemID,
		BorrowerName: req.BorrowerName,
		SchoolID:     req.SchoolID,
		DueDate:      dueDate,
	})
	if err != nil {
		writeLendingError(w, err, itemID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

// HandleReturn closes the open loan on an item and records its condition.
func (h *BorrowHandler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	scope, ok := h.scopes.resolveScope(w, r)
	if !ok {
		return
	}

	itemID := r.PathValue("id")
	if itemID == "" {
		http.Error(w, "Item ID is required", http.StatusBadRequest)
		return
	}

	var req ReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.lending.Return(r.Context(), scope, lending.ReturnParams{
		ItemID:    itemID,
		Condition: req.Condition,
	})
	if err != nil {
		writeLendingError(w, err, itemID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// writeLendingError maps lending domain errors to HTTP statuses. Unknown
// errors are treated as transient infrastructure faults.
func writeLendingError(w http.ResponseWriter, err error, itemID string) {
	switch {
	case errors.Is(err, lending.ErrItemNotFound):
		http.Error(w, "Item not found", http.StatusNotFound)
	case errors.Is(err, lending.ErrItemNotOwned):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, lending.ErrItemAlreadyBorrowed):
		http.Error(w, "Item already has an open transaction", http.StatusConflict)
	case errors.Is(err, lending.ErrNoOpenTransaction):
		http.Error(w, "Item has no open transaction", http.StatusConflict)
	case errors.Is(err, lending.ErrInvalidDueDate),
		errors.Is(err, lending.ErrInvalidCondition):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, lending.ErrTransactionNotFound):
		http.Error(w, "Transaction not found", http.StatusNotFound)
	default:
		log.Printf("Lending error for item %s: %v", itemID, err)
		http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
	}
}
