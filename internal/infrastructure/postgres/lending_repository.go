package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/TronCM143/ISTAK/internal/domain/lending"
	"github.com/TronCM143/ISTAK/internal/domain/user"
)

// LendingRepository is the lending store. The items row (specifically
// current_transaction_id) is the mutual-exclusion point: OpenLoan links it
// with a conditional UPDATE inside the same database transaction that
// inserts the loan row, and the partial unique index
// transactions_one_borrowed_per_item backs the invariant at the schema
// level. Either guard alone rejects the loser of a borrow race.
type LendingRepository struct {
	db *DB
}

func NewLendingRepository(db *DB) *LendingRepository {
	return &LendingRepository{db: db}
}

const transactionColumns = `id, borrow_date, return_date, status, manager_id, mobile_user_id, item_id, borrower_id, created_at, updated_at`

func (r *LendingRepository) OpenLoan(ctx context.Context, params lending.OpenLoanParams) (*lending.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin borrow transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	insert := `
		INSERT INTO transactions (id, borrow_date, return_date, status, manager_id, mobile_user_id, item_id, borrower_id)
		VALUES ($1, $2, $3, 'borrowed', $4, $5, $6, $7)
		RETURNING ` + transactionColumns

	loan, err := scanTransaction(tx.QueryRowContext(ctx, insert,
		uuid.NewString(), params.BorrowDate, params.DueDate,
		params.ManagerID, params.MobileUserID, params.ItemID, params.BorrowerID,
	))
	if err != nil {
		if isUniqueViolation(err) {
			err = lending.ErrItemAlreadyBorrowed
			return nil, err
		}
		err = fmt.Errorf("failed to insert transaction: %w", err)
		return nil, err
	}

	// Conditional link: only an item with no open transaction may be
	// claimed. Zero rows means another borrow won the race.
	link := `
		UPDATE items
		SET current_transaction_id = $1, status = 'borrowed', holder_id = $2,
		    last_borrowed_at = now(), updated_at = now()
		WHERE id = $3 AND current_transaction_id IS NULL`

	res, err := tx.ExecContext(ctx, link, loan.ID, params.MobileUserID, params.ItemID)
	if err != nil {
		err = fmt.Errorf("failed to link item: %w", err)
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		err = fmt.Errorf("failed to read link result: %w", err)
		return nil, err
	}
	if affected == 0 {
		err = lending.ErrItemAlreadyBorrowed
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit borrow: %w", err)
	}
	return loan, nil
}

func (r *LendingRepository) CloseLoan(ctx context.Context, params lending.CloseLoanParams) (*lending.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin return transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Lock the item row so a racing borrow or sweep sees a consistent view.
	var currentTxID sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT current_transaction_id FROM items WHERE id = $1 FOR UPDATE`,
		params.ItemID,
	).Scan(&currentTxID)
	if err == sql.ErrNoRows {
		err = lending.ErrItemNotFound
		return nil, err
	}
	if err != nil {
		err = fmt.Errorf("failed to lock item: %w", err)
		return nil, err
	}
	if !currentTxID.Valid {
		err = lending.ErrNoOpenTransaction
		return nil, err
	}

	close := `
		UPDATE transactions
		SET status = 'returned', return_date = $1, updated_at = now()
		WHERE id = $2 AND status IN ('borrowed', 'overdue')
		RETURNING ` + transactionColumns

	loan, err := scanTransaction(tx.QueryRowContext(ctx, close, params.ReturnDate, currentTxID.String))
	if err == sql.ErrNoRows {
		// Pointer exists but the transaction is not open: stale link.
		err = lending.ErrNoOpenTransaction
		return nil, err
	}
	if err != nil {
		err = fmt.Errorf("failed to close transaction: %w", err)
		return nil, err
	}

	unlink := `
		UPDATE items
		SET current_transaction_id = NULL, status = 'available', condition = $1,
		    holder_id = NULL, updated_at = now()
		WHERE id = $2`
	if _, err = tx.ExecContext(ctx, unlink, params.Condition, params.ItemID); err != nil {
		err = fmt.Errorf("failed to release item: %w", err)
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit return: %w", err)
	}
	return loan, nil
}

// MarkOverdue runs the sweep as a single set-based update. Rows already
// overdue or returned never match the predicate, so re-running with the
// same date is a no-op; a Return that committed first has removed its row
// from the borrowed set and is likewise untouched.
func (r *LendingRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `
		UPDATE transactions
		SET status = 'overdue', updated_at = now()
		WHERE status = 'borrowed' AND return_date < $1`

	res, err := r.db.ExecContext(ctx, query, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue: %w", err)
	}
	return res.RowsAffected()
}

const dueNoticeQuery = `
	SELECT t.id, i.name, b.name, b.school_id, t.return_date, t.mobile_user_id, u.fcm_token
	FROM transactions t
	JOIN items i ON i.id = t.item_id
	LEFT JOIN borrowers b ON b.id = t.borrower_id
	JOIN users u ON u.id = t.mobile_user_id
	WHERE t.status IN ('borrowed', 'overdue') AND t.return_date %s $1
	ORDER BY t.return_date, t.id`

func (r *LendingRepository) ListDueOn(ctx context.Context, date time.Time) ([]*lending.DueNotice, error) {
	return r.listNotices(ctx, fmt.Sprintf(dueNoticeQuery, "="), date)
}

func (r *LendingRepository) ListOverdueBefore(ctx context.Context, date time.Time) ([]*lending.DueNotice, error) {
	return r.listNotices(ctx, fmt.Sprintf(dueNoticeQuery, "<"), date)
}

func (r *LendingRepository) listNotices(ctx context.Context, query string, date time.Time) ([]*lending.DueNotice, error) {
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list due notices: %w", err)
	}
	defer rows.Close()

	var notices []*lending.DueNotice
	for rows.Next() {
		var n lending.DueNotice
		var borrowerName, schoolID, token sql.NullString
		if err := rows.Scan(&n.TransactionID, &n.ItemName, &borrowerName, &schoolID, &n.DueDate, &n.MobileUserID, &token); err != nil {
			return nil, fmt.Errorf("failed to scan due notice: %w", err)
		}
		n.BorrowerName = borrowerName.String
		if schoolID.Valid {
			n.SchoolID = &schoolID.String
		}
		if token.Valid {
			n.FCMToken = &token.String
		}
		notices = append(notices, &n)
	}
	return notices, rows.Err()
}

func (r *LendingRepository) GetByID(ctx context.Context, id string) (*lending.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	loan, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return loan, nil
}

func (r *LendingRepository) ListByScope(ctx context.Context, scope user.Scope) ([]*lending.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE manager_id = $1 ORDER BY borrow_date DESC, created_at DESC`
	arg := scope.ManagerID
	if !scope.IsManager() {
		query = `SELECT ` + transactionColumns + ` FROM transactions WHERE mobile_user_id = $1 ORDER BY borrow_date DESC, created_at DESC`
		arg = scope.UserID
	}

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var loans []*lending.Transaction
	for rows.Next() {
		loan, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// Unlink removes a transaction row after clearing the item's open pointer
// if it still references it. Manager correction path only.
func (r *LendingRepository) Unlink(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin unlink transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	release := `
		UPDATE items
		SET current_transaction_id = NULL, status = 'available', updated_at = now()
		WHERE current_transaction_id = $1`
	if _, err = tx.ExecContext(ctx, release, id); err != nil {
		err = fmt.Errorf("failed to release item: %w", err)
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		err = fmt.Errorf("failed to delete transaction: %w", err)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit unlink: %w", err)
	}
	return nil
}

func scanTransaction(row rowScanner) (*lending.Transaction, error) {
	var t lending.Transaction
	var returnDate sql.NullTime
	var borrowerID sql.NullString

	err := row.Scan(
		&t.ID, &t.BorrowDate, &returnDate, &t.Status, &t.ManagerID,
		&t.MobileUserID, &t.ItemID, &borrowerID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if returnDate.Valid {
		t.ReturnDate = &returnDate.Time
	}
	if borrowerID.Valid {
		t.BorrowerID = &borrowerID.String
	}
	return &t, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
