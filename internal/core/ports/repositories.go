package ports

import (
	"context"
	"time"

	"roomcast/internal/core/domain"
)

type UserRepository interface {
	// Create fails with domain.ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
}

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id domain.RoomID) (*domain.Room, error)
	// AddGuest appends userID to the room's guests only if it is absent and
	// the guest count is below capacity, as one atomic step.
	AddGuest(ctx context.Context, id domain.RoomID, userID string, capacity int) (domain.GuestAppendOutcome, error)
	UpdateStatus(ctx context.Context, id domain.RoomID, status domain.RoomStatus) error
}

// TokenDenylist records revoked session tokens by their jti until natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
