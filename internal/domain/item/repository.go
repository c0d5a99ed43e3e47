package item

import "context"

// Repository defines the interface for item data access. Mutations of
// Condition and CurrentTransactionID happen only through the lending store;
// this repository covers creation and scoped reads.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	ListByManagerID(ctx context.Context, managerID int64) ([]*Item, error)
}
