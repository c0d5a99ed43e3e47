package borrower

import (
	"errors"
	"strings"
)

// Lifecycle status of a borrower. New borrowers start as pending; the
// status is advanced by an approval process outside this engine.
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var ErrNotFound = errors.New("borrower not found")

// Borrower is the human receiving a loan, distinct from the mobile-app
// account that performs the borrow. SchoolID is globally unique when set.
type Borrower struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	SchoolID *string `json:"schoolId,omitempty"`
	Status   string  `json:"status"`
}

// UpsertParams contains parameters for the get-or-create lookup performed
// on every borrow.
type UpsertParams struct {
	Name     string
	SchoolID *string
}

func (p UpsertParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("borrower name is required")
	}
	if p.SchoolID != nil && strings.TrimSpace(*p.SchoolID) == "" {
		return errors.New("school ID must not be blank when provided")
	}
	return nil
}
