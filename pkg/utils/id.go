package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateRoomID generates a globally unique room ID
func GenerateRoomID() string {
	return uuid.NewString()
}

// GenerateUserID generates a globally unique user ID
func GenerateUserID() string {
	return uuid.NewString()
}

// GenerateMediaBridgeID generates an opaque media bridge ID
func GenerateMediaBridgeID() string {
	return GenerateID("bridge")
}

// GenerateChatChannelID generates an opaque chat channel ID
func GenerateChatChannelID() string {
	return GenerateID("chat")
}

// GenerateRequestID generates a unique request ID
func GenerateRequestID() string {
	timestamp := time.Now().UnixNano()
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", timestamp, hex.EncodeToString(b))
}
