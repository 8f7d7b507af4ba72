package domain

import "time"

// MaxGuests is the number of tracked guests a room admits before joiners become audience.
const MaxGuests = 10

type RoomID string

type RoomStatus string

const (
	RoomStatusCreated RoomStatus = "created"
	RoomStatusLive    RoomStatus = "live"
	RoomStatusEnded   RoomStatus = "ended"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusCreated, RoomStatusLive, RoomStatusEnded:
		return true
	}
	return false
}

type Role string

const (
	RoleHost     Role = "host"
	RoleGuest    Role = "guest"
	RoleAudience Role = "audience"
)

type Room struct {
	ID            RoomID     `json:"room_id"`
	Title         string     `json:"title"`
	HostID        string     `json:"host_id"`
	GuestIDs      []string   `json:"guest_ids"`
	MediaBridgeID string     `json:"media_bridge_id"`
	PlaybackURL   string     `json:"playback_url"`
	ChatChannelID string     `json:"chat_channel_id"`
	Status        RoomStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (r *Room) HasGuest(userID string) bool {
	for _, id := range r.GuestIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ClassifyJoin applies the role rule against the current membership snapshot.
// shouldAppend is true only when the user must be added to GuestIDs.
func (r *Room) ClassifyJoin(userID string) (role Role, shouldAppend bool) {
	switch {
	case userID == r.HostID:
		return RoleHost, false
	case r.HasGuest(userID):
		return RoleGuest, false
	case len(r.GuestIDs) < MaxGuests:
		return RoleGuest, true
	default:
		return RoleAudience, false
	}
}

// Clone returns a copy whose guest slice does not alias the receiver's.
func (r *Room) Clone() *Room {
	c := *r
	c.GuestIDs = append(make([]string, 0, len(r.GuestIDs)), r.GuestIDs...)
	return &c
}

// GuestAppendOutcome is the result of an atomic conditional guest append.
type GuestAppendOutcome int

const (
	GuestAppended GuestAppendOutcome = iota
	GuestAlreadyPresent
	GuestRoomFull
)

func (o GuestAppendOutcome) String() string {
	switch o {
	case GuestAppended:
		return "appended"
	case GuestAlreadyPresent:
		return "already_present"
	case GuestRoomFull:
		return "room_full"
	default:
		return "unknown"
	}
}

// JoinResult is what a joining client needs to attach to the broadcast.
type JoinResult struct {
	Role          Role   `json:"role"`
	RoomID        RoomID `json:"room_id"`
	MediaBridgeID string `json:"media_bridge_id"`
	PlaybackURL   string `json:"playback_url"`
	ChatChannelID string `json:"chat_channel_id"`
}

type StatusChange struct {
	RoomID RoomID     `json:"room_id"`
	Status RoomStatus `json:"status"`
}
