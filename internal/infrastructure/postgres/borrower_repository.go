package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/TronCM143/ISTAK/internal/domain/borrower"
)

type BorrowerRepository struct {
	db *DB
}

func NewBorrowerRepository(db *DB) *BorrowerRepository {
	return &BorrowerRepository{db: db}
}

// Upsert resolves a borrower by school ID, creating the row if absent.
// The ON CONFLICT clause keeps the get-or-create atomic on the school-ID
// uniqueness constraint. Borrowers without a school ID are always
// inserted fresh since there is no identity to converge on.
func (r *BorrowerRepository) Upsert(ctx context.Context, params borrower.UpsertParams) (*borrower.Borrower, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var b borrower.Borrower
	var schoolID sql.NullString

	if params.SchoolID == nil {
		query := `
			INSERT INTO borrowers (id, name, status)
			VALUES ($1, $2, 'pending')
			RETURNING id, name, school_id, status`
		err := r.db.QueryRowContext(ctx, query, uuid.NewString(), params.Name).
			Scan(&b.ID, &b.Name, &schoolID, &b.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to create borrower: %w", err)
		}
		return &b, nil
	}

	query := `
		INSERT INTO borrowers (id, name, school_id, status)
		VALUES ($1, $2, $3, 'pending')
		ON CONFLICT (school_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, school_id, status`

	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), params.Name, *params.SchoolID).
		Scan(&b.ID, &b.Name, &schoolID, &b.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert borrower: %w", err)
	}
	if schoolID.Valid {
		b.SchoolID = &schoolID.String
	}
	return &b, nil
}

func (r *BorrowerRepository) GetByID(ctx context.Context, id string) (*borrower.Borrower, error) {
	query := `SELECT id, name, school_id, status FROM borrowers WHERE id = $1`

	var b borrower.Borrower
	var schoolID sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Name, &schoolID, &b.Status)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get borrower: %w", err)
	}
	if schoolID.Valid {
		b.SchoolID = &schoolID.String
	}
	return &b, nil
}

// ListByManagerID returns borrowers that appear in the manager's
// transaction history. Borrowers are shared rows; scope is derived from
// the transactions that reference them.
func (r *BorrowerRepository) ListByManagerID(ctx context.Context, managerID int64) ([]*borrower.Borrower, error) {
	query := `
		SELECT DISTINCT b.id, b.name, b.school_id, b.status
		FROM borrowers b
		JOIN transactions t ON t.borrower_id = b.id
		WHERE t.manager_id = $1
		ORDER BY b.name`

	rows, err := r.db.QueryContext(ctx, query, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowers: %w", err)
	}
	defer rows.Close()

	var borrowers []*borrower.Borrower
	for rows.Next() {
		var b borrower.Borrower
		var schoolID sql.NullString
		if err := rows.Scan(&b.ID, &b.Name, &schoolID, &b.Status); err != nil {
			return nil, fmt.Errorf("failed to scan borrower: %w", err)
		}
		if schoolID.Valid {
			b.SchoolID = &schoolID.String
		}
		borrowers = append(borrowers, &b)
	}
	return borrowers, rows.Err()
}
