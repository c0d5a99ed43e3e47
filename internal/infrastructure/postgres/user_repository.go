package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TronCM143/ISTAK/internal/domain/user"
)

// UserRepository implements user.Repository using PostgreSQL
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, role, manager_id, fcm_token, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, role, manager_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query,
		params.Username, params.Email, params.PasswordHash, params.Role, params.ManagerID,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("username or email already taken: %w", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ListManagers(ctx context.Context) ([]*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = 'manager' ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateFCMToken(ctx context.Context, userID int64, token string) error {
	// A device token belongs to one account at a time. Stealing it from a
	// previous login on the same device avoids cross-account pushes.
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin token update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`UPDATE users SET fcm_token = NULL, updated_at = now() WHERE fcm_token = $1 AND id <> $2`,
		token, userID,
	); err != nil {
		err = fmt.Errorf("failed to detach token: %w", err)
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE users SET fcm_token = $1, updated_at = now() WHERE id = $2`,
		token, userID,
	)
	if err != nil {
		err = fmt.Errorf("failed to update token: %w", err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		err = fmt.Errorf("failed to read token update result: %w", err)
		return err
	}
	if affected == 0 {
		err = user.ErrNotFound
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit token update: %w", err)
	}
	return nil
}

func (r *UserRepository) ClearFCMToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET fcm_token = NULL, updated_at = now() WHERE fcm_token = $1`,
		token,
	)
	if err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

func scanUser(row rowScanner) (*user.User, error) {
	var u user.User
	var managerID sql.NullInt64
	var fcmToken sql.NullString

	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&managerID, &fcmToken, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if managerID.Valid {
		u.ManagerID = &managerID.Int64
	}
	if fcmToken.Valid {
		u.FCMToken = &fcmToken.String
	}
	return &u, nil
}
