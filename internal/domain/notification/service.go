package notification

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/TronCM143/ISTAK/internal/domain/user"
)

var ErrNoDeviceToken = errors.New("user has no registered device token")

// Service resolves a user's registered device token and delivers a push
// message through the configured Messenger.
type Service struct {
	users     user.Repository
	messenger Messenger
}

// NewService creates a new notification service
func NewService(users user.Repository, messenger Messenger) *Service {
	return &Service{users: users, messenger: messenger}
}

// SendToUser pushes a message to the user's registered device. Returns
// ErrNoDeviceToken when the user never registered one; callers treat every
// error from this method as best-effort.
func (s *Service) SendToUser(ctx context.Context, userID int64, title, body string) error {
	if s.messenger == nil {
		return nil
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user %d: %w", userID, err)
	}
	if u == nil {
		return user.ErrNotFound
	}
	if u.FCMToken == nil || *u.FCMToken == "" {
		return ErrNoDeviceToken
	}

	if err := s.messenger.Send(ctx, *u.FCMToken, title, body, nil); err != nil {
		return fmt.Errorf("failed to send push to user %d: %w", userID, err)
	}

	log.Printf("Pushed %q to user %d", title, userID)
	return nil
}

// RegisterToken stores the device token a mobile client reports after
// (re-)installing or refreshing its FCM registration.
func (s *Service) RegisterToken(ctx context.Context, userID int64, token string) error {
	if token == "" {
		return errors.New("fcm token is required")
	}
	return s.users.UpdateFCMToken(ctx, userID, token)
}
