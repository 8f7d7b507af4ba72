package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"roomcast/internal/core/domain"
	"roomcast/internal/core/ports"
	"roomcast/pkg/tracing"
	"roomcast/pkg/utils"
	"roomcast/pkg/validation"

	"go.uber.org/zap"
)

const DefaultPlaybackBaseURL = "https://hls.roomcast.local/live"

type roomService struct {
	roomRepo        ports.RoomRepository
	playbackBaseURL string
	metrics         ports.RoomMetrics
	logger          *zap.SugaredLogger
	now             func() time.Time
}

func NewRoomService(
	roomRepo ports.RoomRepository,
	playbackBaseURL string,
	metrics ports.RoomMetrics, // can be nil
	logger *zap.SugaredLogger,
) ports.RoomService {
	if playbackBaseURL == "" {
		playbackBaseURL = DefaultPlaybackBaseURL
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &roomService{
		roomRepo:        roomRepo,
		playbackBaseURL: playbackBaseURL,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *roomService) CreateRoom(ctx context.Context, title, hostID, playbackURL string) (*domain.Room, error) {
	title = utils.SanitizeString(title)
	hostID = strings.TrimSpace(hostID)
	playbackURL = strings.TrimSpace(playbackURL)

	fields := validation.Fields{
		"title":        validation.ValidateRoomTitle(title),
		"host_id":      validation.ValidateIdentity(hostID, "host_id"),
		"playback_url": validation.ValidatePlaybackURL(playbackURL),
	}
	if msgs := fields.Messages(); msgs != nil {
		return nil, domain.NewValidationError(msgs)
	}

	roomID := utils.GenerateRoomID()
	ctx, span := tracing.TraceRoomOperation(ctx, "create", roomID)
	defer span.End()

	if playbackURL == "" {
		playbackURL = utils.PlaybackURL(s.playbackBaseURL, roomID)
	}

	room := &domain.Room{
		ID:            domain.RoomID(roomID),
		Title:         title,
		HostID:        hostID,
		GuestIDs:      []string{},
		MediaBridgeID: utils.GenerateMediaBridgeID(),
		PlaybackURL:   playbackURL,
		ChatChannelID: utils.GenerateChatChannelID(),
		Status:        domain.RoomStatusCreated,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		tracing.RecordError(ctx, err)
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	s.metrics.RecordRoomCreated()
	s.logger.Infow("room created",
		"room_id", room.ID,
		"host_id", room.HostID,
	)

	return room, nil
}

// JoinRoom classifies userID against the room and, when the user becomes a
// new guest, records them through the store's atomic append. A lost race
// for the last guest seat degrades to audience.
func (s *roomService) JoinRoom(ctx context.Context, roomID domain.RoomID, userID string) (*domain.JoinResult, error) {
	userID = strings.TrimSpace(userID)
	if err := validation.ValidateIdentity(userID, "user_id"); err != nil {
		return nil, domain.NewValidationError(map[string]string{"user_id": err.Error()})
	}

	ctx, span := tracing.TraceRoomOperation(ctx, "join", string(roomID))
	defer span.End()
	span.SetAttributes(tracing.UserIDKey.String(userID))

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, fmt.Errorf("failed to load room: %w", err)
	}

	role, shouldAppend := room.ClassifyJoin(userID)
	if shouldAppend {
		outcome, err := s.roomRepo.AddGuest(ctx, roomID, userID, domain.MaxGuests)
		if err != nil {
			tracing.RecordError(ctx, err)
			return nil, fmt.Errorf("failed to add guest: %w", err)
		}
		if outcome == domain.GuestRoomFull {
			role = domain.RoleAudience
		}
		s.logger.Debugw("guest append",
			"room_id", roomID,
			"user_id", userID,
			"outcome", outcome.String(),
		)
	}

	span.SetAttributes(tracing.RoleKey.String(string(role)))
	s.metrics.RecordJoin(role)

	return &domain.JoinResult{
		Role:          role,
		RoomID:        room.ID,
		MediaBridgeID: room.MediaBridgeID,
		PlaybackURL:   room.PlaybackURL,
		ChatChannelID: room.ChatChannelID,
	}, nil
}

func (s *roomService) GetRoom(ctx context.Context, roomID domain.RoomID) (*domain.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load room: %w", err)
	}
	return room, nil
}

// SetStatus overwrites the status without checking the current one, so
// start and stop are idempotent and any state may move to live or ended.
func (s *roomService) SetStatus(ctx context.Context, roomID domain.RoomID, status domain.RoomStatus) (*domain.StatusChange, error) {
	if status != domain.RoomStatusLive && status != domain.RoomStatusEnded {
		return nil, domain.NewValidationError(map[string]string{
			"status": fmt.Sprintf("status must be %q or %q", domain.RoomStatusLive, domain.RoomStatusEnded),
		})
	}

	ctx, span := tracing.TraceRoomOperation(ctx, "set_status", string(roomID))
	defer span.End()
	span.SetAttributes(tracing.StatusKey.String(string(status)))

	if err := s.roomRepo.UpdateStatus(ctx, roomID, status); err != nil {
		tracing.RecordError(ctx, err)
		return nil, fmt.Errorf("failed to update room status: %w", err)
	}

	s.metrics.RecordStatusChange(status)
	s.logger.Infow("room status changed",
		"room_id", roomID,
		"status", status,
	)

	return &domain.StatusChange{RoomID: roomID, Status: status}, nil
}
