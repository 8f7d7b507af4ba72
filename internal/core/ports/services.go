package ports

import (
	"context"
	"time"

	"roomcast/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the identity asserted by a session token.
type SessionClaims struct {
	UserID domain.UserID `json:"user_id"`
	Email  string        `json:"email"`
	Name   string        `json:"name"`
	jwt.RegisteredClaims
}

type AuthResult struct {
	Token     string            `json:"token"`
	TokenType string            `json:"token_type"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      domain.PublicUser `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
	IssueToken(user *domain.User) (string, time.Time, error)
	VerifyToken(ctx context.Context, token string) (*SessionClaims, error)
	Logout(ctx context.Context, claims *SessionClaims) error
}

type RoomService interface {
	CreateRoom(ctx context.Context, title, hostID, playbackURL string) (*domain.Room, error)
	JoinRoom(ctx context.Context, roomID domain.RoomID, userID string) (*domain.JoinResult, error)
	GetRoom(ctx context.Context, roomID domain.RoomID) (*domain.Room, error)
	SetStatus(ctx context.Context, roomID domain.RoomID, status domain.RoomStatus) (*domain.StatusChange, error)
}

// RoomMetrics receives domain events for instrumentation.
type RoomMetrics interface {
	RecordRoomCreated()
	RecordJoin(role domain.Role)
	RecordStatusChange(status domain.RoomStatus)
	RecordAuthEvent(event, outcome string)
}
