package redis

import (
	"context"
	"fmt"
	"time"

	"roomcast/internal/core/domain"
	"roomcast/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// Rooms are stored as a hash with the guest list in a sibling list key.
// Both keys share a hash tag so scripts touching them stay on one slot.

var createRoomScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return 1
`)

// Returns -1 when the room is missing, 0 appended, 1 already present, 2 full.
var addGuestScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
local guests = redis.call('LRANGE', KEYS[2], 0, -1)
for _, id in ipairs(guests) do
	if id == ARGV[1] then
		return 1
	end
end
if #guests >= tonumber(ARGV[2]) then
	return 2
end
redis.call('RPUSH', KEYS[2], ARGV[1])
return 0
`)

var updateStatusScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], 'status', ARGV[1])
return 1
`)

type RedisRoomRepository struct {
	client *redis.Client
	prefix string
}

func NewRedisRoomRepository(client *redis.Client) ports.RoomRepository {
	return &RedisRoomRepository{
		client: client,
		prefix: keyPrefix + "room:",
	}
}

func (r *RedisRoomRepository) roomKey(id domain.RoomID) string {
	return r.prefix + "{" + string(id) + "}"
}

func (r *RedisRoomRepository) guestsKey(id domain.RoomID) string {
	return r.roomKey(id) + ":guests"
}

func (r *RedisRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	fields := []interface{}{
		"title", room.Title,
		"host_id", room.HostID,
		"media_bridge_id", room.MediaBridgeID,
		"playback_url", room.PlaybackURL,
		"chat_channel_id", room.ChatChannelID,
		"status", string(room.Status),
		"created_at", room.CreatedAt.UTC().Format(time.RFC3339Nano),
	}

	created, err := createRoomScript.Run(ctx, r.client, []string{r.roomKey(room.ID)}, fields...).Int()
	if err != nil {
		return domain.NewStorageError("create room", err)
	}
	if created == 0 {
		return domain.NewStorageError("create room", fmt.Errorf("room already exists: %s", room.ID))
	}

	if len(room.GuestIDs) > 0 {
		guests := make([]interface{}, len(room.GuestIDs))
		for i, id := range room.GuestIDs {
			guests[i] = id
		}
		if err := r.client.RPush(ctx, r.guestsKey(room.ID), guests...).Err(); err != nil {
			return domain.NewStorageError("create room", err)
		}
	}

	return nil
}

func (r *RedisRoomRepository) GetByID(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	var (
		fieldsCmd *redis.MapStringStringCmd
		guestsCmd *redis.StringSliceCmd
	)
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		fieldsCmd = pipe.HGetAll(ctx, r.roomKey(id))
		guestsCmd = pipe.LRange(ctx, r.guestsKey(id), 0, -1)
		return nil
	})
	if err != nil {
		return nil, domain.NewStorageError("get room", err)
	}

	fields := fieldsCmd.Val()
	if len(fields) == 0 {
		return nil, domain.ErrRoomNotFound
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, domain.NewStorageError("get room", fmt.Errorf("failed to parse created_at: %w", err))
	}

	guests := guestsCmd.Val()
	if guests == nil {
		guests = []string{}
	}

	return &domain.Room{
		ID:            id,
		Title:         fields["title"],
		HostID:        fields["host_id"],
		GuestIDs:      guests,
		MediaBridgeID: fields["media_bridge_id"],
		PlaybackURL:   fields["playback_url"],
		ChatChannelID: fields["chat_channel_id"],
		Status:        domain.RoomStatus(fields["status"]),
		CreatedAt:     createdAt,
	}, nil
}

func (r *RedisRoomRepository) AddGuest(ctx context.Context, id domain.RoomID, userID string, capacity int) (domain.GuestAppendOutcome, error) {
	keys := []string{r.roomKey(id), r.guestsKey(id)}
	result, err := addGuestScript.Run(ctx, r.client, keys, userID, capacity).Int()
	if err != nil {
		return 0, domain.NewStorageError("add guest", err)
	}

	switch result {
	case -1:
		return 0, domain.ErrRoomNotFound
	case 0:
		return domain.GuestAppended, nil
	case 1:
		return domain.GuestAlreadyPresent, nil
	case 2:
		return domain.GuestRoomFull, nil
	default:
		return 0, domain.NewStorageError("add guest", fmt.Errorf("unexpected script result %d", result))
	}
}

func (r *RedisRoomRepository) UpdateStatus(ctx context.Context, id domain.RoomID, status domain.RoomStatus) error {
	updated, err := updateStatusScript.Run(ctx, r.client, []string{r.roomKey(id)}, string(status)).Int()
	if err != nil {
		return domain.NewStorageError("update room status", err)
	}
	if updated == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}
