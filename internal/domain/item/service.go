package item

import (
	"context"

	"github.com/TronCM143/ISTAK/internal/domain/user"
)

// Service contains the business logic for item operations
type Service struct {
	repo Repository
}

// NewService creates a new item service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateItem creates an item stamped with the caller's manager scope.
func (s *Service) CreateItem(ctx context.Context, scope user.Scope, name string, condition *string) (*Item, error) {
	params := CreateParams{
		Name:      name,
		Condition: condition,
		ManagerID: scope.ManagerID,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}

// GetItem retrieves an item and verifies it belongs to the caller's scope.
func (s *Service) GetItem(ctx context.Context, scope user.Scope, id string) (*Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrNotFound
	}
	if it.ManagerID != scope.ManagerID {
		return nil, ErrNotOwned
	}
	return it, nil
}

// ListItems returns all items in the caller's scope.
func (s *Service) ListItems(ctx context.Context, scope user.Scope) ([]*Item, error) {
	return s.repo.ListByManagerID(ctx, scope.ManagerID)
}
