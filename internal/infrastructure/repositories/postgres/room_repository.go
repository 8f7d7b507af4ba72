package postgres

import (
	"context"
	"errors"

	"roomcast/internal/core/domain"
	"roomcast/internal/core/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRoomRepository struct {
	db *gorm.DB
}

func NewPostgresRoomRepository(db *gorm.DB) ports.RoomRepository {
	return &PostgresRoomRepository{db: db}
}

func (r *PostgresRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if err := r.db.WithContext(ctx).Create(roomFromDomain(room)).Error; err != nil {
		return domain.NewStorageError("create room", err)
	}
	return nil
}

func (r *PostgresRoomRepository) GetByID(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	var model roomModel
	err := r.db.WithContext(ctx).
		Preload("Guests", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&model, "id = ?", string(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, domain.NewStorageError("get room", err)
	}

	return model.toDomain(), nil
}

// AddGuest holds a row lock on the room while it counts and inserts, so
// concurrent joins on the same room serialize.
func (r *PostgresRoomRepository) AddGuest(ctx context.Context, id domain.RoomID, userID string, capacity int) (domain.GuestAppendOutcome, error) {
	var outcome domain.GuestAppendOutcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room roomModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&room, "id = ?", string(id)).Error; err != nil {
			return err
		}

		var present int64
		if err := tx.Model(&roomGuestModel{}).
			Where("room_id = ? AND user_id = ?", room.ID, userID).
			Count(&present).Error; err != nil {
			return err
		}
		if present > 0 {
			outcome = domain.GuestAlreadyPresent
			return nil
		}

		var count int64
		if err := tx.Model(&roomGuestModel{}).Where("room_id = ?", room.ID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(capacity) {
			outcome = domain.GuestRoomFull
			return nil
		}

		outcome = domain.GuestAppended
		return tx.Create(&roomGuestModel{RoomID: room.ID, UserID: userID, Position: int(count)}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domain.ErrRoomNotFound
	}
	if err != nil {
		return 0, domain.NewStorageError("add guest", err)
	}

	return outcome, nil
}

func (r *PostgresRoomRepository) UpdateStatus(ctx context.Context, id domain.RoomID, status domain.RoomStatus) error {
	result := r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("id = ?", string(id)).
		Update("status", string(status))
	if result.Error != nil {
		return domain.NewStorageError("update room status", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}
