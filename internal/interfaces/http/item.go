package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/TronCM143/ISTAK/internal/domain/item"
)

// ItemHandler serves the item catalog endpoints.
type ItemHandler struct {
	items  *item.Service
	scopes *ScopeResolver
}

func NewItemHandler(items *item.Service, scopes *ScopeResolver) *ItemHandler {
	return &ItemHandler{items: items, scopes: scopes}
}

type CreateItemRequest struct {
	Name      string  `json:"name"`
	Condition *string `json:"condition,omitempty"`
}

// HandleItems serves GET (list) and POST (create) on the item collection.
func (h *ItemHandler) HandleItems(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scopes.resolveScope(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		items, err := h.items.ListItems(r.Context(), scope)
		if err != nil {
			log.Printf("Error listing items for manager %d: %v", scope.ManagerID, err)
			http.Error(w, "Failed to list items", http.StatusInternalServerError)
			return
		}
		if items == nil {
			items = []*item.Item{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(items)

	case http.MethodPost:
		if !scope.IsManager() {
			http.Error(w, "Only managers can create items", http.StatusForbidden)
			return
		}

		var req CreateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		created, err := h.items.CreateItem(r.Context(), scope, req.Name, req.Condition)
		if err != nil {
			if errors.Is(err, item.ErrNotFound) || errors.Is(err, item.ErrNotOwned) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Printf("Error creating item for manager %d: %v", scope.ManagerID, err)
			http.Error(w, "Failed to create item", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleItemByID serves GET on a single item.
func (h *ItemHandler) HandleItemByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
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

	it, err := h.items.GetItem(r.Context(), scope, itemID)
	if err != nil {
		switch {
		case errors.Is(err, item.ErrNotFound):
			http.Error(w, "Item not found", http.StatusNotFound)
		case errors.Is(err, item.ErrNotOwned):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Printf("Error getting item %s: %v", itemID, err)
			http.Error(w, "Failed to get item", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(it)
}
