package borrower

import "context"

// Repository defines the interface for borrower data access.
// Upsert must be atomic on the school-ID uniqueness constraint: two
// concurrent borrows naming the same borrower resolve to one row.
type Repository interface {
	Upsert(ctx context.Context, params UpsertParams) (*Borrower, error)
	GetByID(ctx context.Context, id string) (*Borrower, error)
	ListByManagerID(ctx context.Context, managerID int64) ([]*Borrower, error)
}
