package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/TronCM143/ISTAK/internal/domain/lending"
)

// TransactionHandler serves loan history endpoints.
type TransactionHandler struct {
	lending *lending.Service
	scopes  *ScopeResolver
}

func NewTransactionHandler(lendingService *lending.Service, scopes *ScopeResolver) *TransactionHandler {
	return &TransactionHandler{lending: lendingService, scopes: scopes}
}

// HandleListTransactions returns the transactions visible to the caller:
// the whole pool for managers, the caller's own for mobile users.
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	scope, ok := h.scopes.resolveScope(w, r)
	if !ok {
		return
	}

	transactions, err := h.lending.ListTransactions(r.Context(), scope)
	if err != nil {
		log.Printf("Error listing transactions for user %d: %v", scope.UserID, err)
		http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}
	if transactions == nil {
		transactions = []*lending.Transaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transactions)
}

// HandleTransactionByID serves GET and DELETE on a single transaction.
// DELETE is the manager correction path and detaches the item first.
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopes.resolveScope(w, r)
	if !ok {
		return
	}

	txID := r.PathValue("id")
	if txID == "" {
		http.Error(w, "Transaction ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		tx, err := h.lending.GetTransaction(r.Context(), scope, txID)
		if err != nil {
			if errors.Is(err, lending.ErrTransactionNotFound) {
				http.Error(w, "Transaction not found", http.StatusNotFound)
				return
			}
			log.Printf("Error getting transaction %s: %v", txID, err)
			http.Error(w, "Failed to get transaction", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tx)

	case http.MethodDelete:
		if err := h.lending.DeleteTransaction(r.Context(), scope, txID); err != nil {
			if errors.Is(err, lending.ErrTransactionNotFound) {
				http.Error(w, "Transaction not found", http.StatusNotFound)
				return
			}
			log.Printf("Error deleting transaction %s: %v", txID, err)
			http.Error(w, "Failed to delete transaction", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
