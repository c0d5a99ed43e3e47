package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/TronCM143/ISTAK/internal/domain/item"
)

type ItemRepository struct {
	db *DB
}

func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{db: db}
}

const itemColumns = `id, name, status, condition, manager_id, holder_id, current_transaction_id, last_borrowed_at, created_at, updated_at`

func (r *ItemRepository) Create(ctx context.Context, params item.CreateParams) (*item.Item, error) {
	query := `
		INSERT INTO items (id, name, condition, manager_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + itemColumns

	row := r.db.QueryRowContext(ctx, query, uuid.NewString(), params.Name, params.Condition, params.ManagerID)
	it, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return it, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (*item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return it, nil
}

func (r *ItemRepository) ListByManagerID(ctx context.Context, managerID int64) ([]*item.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE manager_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*item.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*item.Item, error) {
	var it item.Item
	var condition, currentTx sql.NullString
	var holder sql.NullInt64
	var lastBorrowed sql.NullTime

	err := row.Scan(
		&it.ID, &it.Name, &it.Status, &condition, &it.ManagerID,
		&holder, &currentTx, &lastBorrowed, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if condition.Valid {
		it.Condition = &condition.String
	}
	if holder.Valid {
		it.HolderID = &holder.Int64
	}
	if currentTx.Valid {
		it.CurrentTransactionID = &currentTx.String
	}
	if lastBorrowed.Valid {
		it.LastBorrowedAt = &lastBorrowed.Time
	}
	return &it, nil
}
