package postgres

import (
	"time"

	"roomcast/internal/core/domain"
)

type userModel struct {
	ID           string    `gorm:"type:text;primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           domain.UserID(m.ID),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
	}
}

type roomModel struct {
	ID            string `gorm:"type:text;primaryKey"`
	Title         string `gorm:"not null"`
	HostID        string `gorm:"not null"`
	MediaBridgeID string
	PlaybackURL   string
	ChatChannelID string
	Status        string    `gorm:"not null;check:status IN ('created','live','ended')"`
	CreatedAt     time.Time `gorm:"not null"`

	Guests []roomGuestModel `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

func (roomModel) TableName() string { return "rooms" }

func (m *roomModel) toDomain() *domain.Room {
	guests := make([]string, 0, len(m.Guests))
	for _, g := range m.Guests {
		guests = append(guests, g.UserID)
	}

	return &domain.Room{
		ID:            domain.RoomID(m.ID),
		Title:         m.Title,
		HostID:        m.HostID,
		GuestIDs:      guests,
		MediaBridgeID: m.MediaBridgeID,
		PlaybackURL:   m.PlaybackURL,
		ChatChannelID: m.ChatChannelID,
		Status:        domain.RoomStatus(m.Status),
		CreatedAt:     m.CreatedAt,
	}
}

func roomFromDomain(r *domain.Room) *roomModel {
	m := &roomModel{
		ID:            string(r.ID),
		Title:         r.Title,
		HostID:        r.HostID,
		MediaBridgeID: r.MediaBridgeID,
		PlaybackURL:   r.PlaybackURL,
		ChatChannelID: r.ChatChannelID,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
	}
	for i, id := range r.GuestIDs {
		m.Guests = append(m.Guests, roomGuestModel{RoomID: m.ID, UserID: id, Position: i})
	}
	return m
}

// roomGuestModel keeps guest order through Position.
type roomGuestModel struct {
	RoomID   string `gorm:"type:text;primaryKey"`
	UserID   string `gorm:"type:text;primaryKey"`
	Position int    `gorm:"not null"`
}

func (roomGuestModel) TableName() string { return "room_guests" }
