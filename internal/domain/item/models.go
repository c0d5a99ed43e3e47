package item

import (
	"errors"
	"strings"
	"time"
)

// Item lifecycle states. "borrowed" is redundant with the open-transaction
// pointer but kept as a denormalized column for cheap listing queries.
const (
	StatusAvailable = "available"
	StatusBorrowed  = "borrowed"
)

// Domain errors
var (
	ErrNotFound = errors.New("item not found")
	ErrNotOwned = errors.New("item not managed by caller's manager")
)

// Item represents a lendable physical object owned by exactly one manager.
// CurrentTransactionID is non-nil if and only if an open borrow transaction
// references the item.
type Item struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Status               string     `json:"status"`
	Condition            *string    `json:"condition,omitempty"`
	ManagerID            int64      `json:"managerId"`
	HolderID             *int64     `json:"holderId,omitempty"`
	CurrentTransactionID *string    `json:"currentTransactionId,omitempty"`
	LastBorrowedAt       *time.Time `json:"lastBorrowedAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// Available reports whether the item has no open transaction.
func (i *Item) Available() bool { return i.CurrentTransactionID == nil }

// CreateParams contains parameters for creating a new item
type CreateParams struct {
	Name      string
	Condition *string
	ManagerID int64
}

func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("item name is required")
	}
	if p.ManagerID <= 0 {
		return errors.New("valid manager ID is required")
	}
	return nil
}
