package memory

import (
	"context"
	"fmt"
	"sync"

	"roomcast/internal/core/domain"
	"roomcast/internal/core/ports"
)

type MemoryRoomRepository struct {
	rooms map[domain.RoomID]*domain.Room
	mu    sync.RWMutex
}

func NewMemoryRoomRepository() ports.RoomRepository {
	return &MemoryRoomRepository{
		rooms: make(map[domain.RoomID]*domain.Room),
	}
}

func (r *MemoryRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[room.ID]; exists {
		return domain.NewStorageError("create room", fmt.Errorf("room already exists: %s", room.ID))
	}

	r.rooms[room.ID] = room.Clone()
	return nil
}

func (r *MemoryRoomRepository) GetByID(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[id]
	if !exists {
		return nil, domain.ErrRoomNotFound
	}

	return room.Clone(), nil
}

func (r *MemoryRoomRepository) AddGuest(ctx context.Context, id domain.RoomID, userID string, capacity int) (domain.GuestAppendOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[id]
	if !exists {
		return 0, domain.ErrRoomNotFound
	}

	if room.HasGuest(userID) {
		return domain.GuestAlreadyPresent, nil
	}
	if len(room.GuestIDs) >= capacity {
		return domain.GuestRoomFull, nil
	}

	room.GuestIDs = append(room.GuestIDs, userID)
	return domain.GuestAppended, nil
}

func (r *MemoryRoomRepository) UpdateStatus(ctx context.Context, id domain.RoomID, status domain.RoomStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[id]
	if !exists {
		return domain.ErrRoomNotFound
	}

	room.Status = status
	return nil
}
