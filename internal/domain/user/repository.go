package user

import "context"

// Repository defines the interface for user data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ListManagers(ctx context.Context) ([]*User, error)
	UpdateFCMToken(ctx context.Context, userID int64, token string) error
	ClearFCMToken(ctx context.Context, token string) error
}
