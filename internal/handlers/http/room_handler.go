package http

import (
	"net/http"

	"roomcast/internal/core/domain"
	"roomcast/internal/core/ports"
	"roomcast/pkg/errors"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	roomService ports.RoomService
}

func NewRoomHandler(roomService ports.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
	}
}

func (h *RoomHandler) SetupRoutes(router *gin.Engine, requireAuth gin.HandlerFunc) {
	api := router.Group("/room", requireAuth)
	{
		api.POST("", h.CreateRoom)
		api.GET("/:id", h.GetRoom)
		api.POST("/:id/join", h.JoinRoom)
		api.POST("/:id/start", h.StartRoom)
		api.POST("/:id/stop", h.StopRoom)
	}
}

type CreateRoomRequest struct {
	Title       string `json:"title"`
	HostID      string `json:"host_id"`
	PlaybackURL string `json:"playback_url"`
}

type JoinRoomRequest struct {
	UserID string `json:"user_id"`
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), req.Title, req.HostID, req.PlaybackURL)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.roomService.GetRoom(c.Request.Context(), domain.RoomID(c.Param("id")))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	result, err := h.roomService.JoinRoom(c.Request.Context(), domain.RoomID(c.Param("id")), req.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *RoomHandler) StartRoom(c *gin.Context) {
	h.setStatus(c, domain.RoomStatusLive)
}

func (h *RoomHandler) StopRoom(c *gin.Context) {
	h.setStatus(c, domain.RoomStatusEnded)
}

func (h *RoomHandler) setStatus(c *gin.Context, status domain.RoomStatus) {
	change, err := h.roomService.SetStatus(c.Request.Context(), domain.RoomID(c.Param("id")), status)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, change)
}
