package services

import (
	"context"
	"time"

	"roomcast/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type mockRoomRepository struct {
	mock.Mock
}

func (m *mockRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *mockRoomRepository) GetByID(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	args := m.Called(ctx, id)
	room, _ := args.Get(0).(*domain.Room)
	return room, args.Error(1)
}

func (m *mockRoomRepository) AddGuest(ctx context.Context, id domain.RoomID, userID string, capacity int) (domain.GuestAppendOutcome, error) {
	args := m.Called(ctx, id, userID, capacity)
	return args.Get(0).(domain.GuestAppendOutcome), args.Error(1)
}

func (m *mockRoomRepository) UpdateStatus(ctx context.Context, id domain.RoomID, status domain.RoomStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type mockDenylist struct {
	mock.Mock
}

func (m *mockDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	return m.Called(ctx, tokenID, until).Error(0)
}

func (m *mockDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

type recordingMetrics struct {
	roomsCreated  int
	joins         map[domain.Role]int
	statusChanges map[domain.RoomStatus]int
	authEvents    map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		joins:         make(map[domain.Role]int),
		statusChanges: make(map[domain.RoomStatus]int),
		authEvents:    make(map[string]int),
	}
}

func (r *recordingMetrics) RecordRoomCreated() {
	r.roomsCreated++
}

func (r *recordingMetrics) RecordJoin(role domain.Role) {
	r.joins[role]++
}

func (r *recordingMetrics) RecordStatusChange(status domain.RoomStatus) {
	r.statusChanges[status]++
}

func (r *recordingMetrics) RecordAuthEvent(event, outcome string) {
	r.authEvents[event+":"+outcome]++
}
