package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aryasetia/doorguard/internal/realtime"
	apperrors "github.com/aryasetia/doorguard/pkg/errors"
	"github.com/aryasetia/doorguard/pkg/response"
)

// RealtimeHandler upgrades dashboard connections to the alert stream.
type RealtimeHandler struct {
	hub *realtime.Hub
}

// NewRealtimeHandler constructs a realtime handler.
func NewRealtimeHandler(hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{hub: hub}
}

// Serve subscribes the caller to the requested streams over a websocket.
// Streams default to security-alerts when none are named.
func (h *RealtimeHandler) Serve(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	streams := []string{realtime.StreamSecurityAlerts}
	if raw := strings.TrimSpace(c.Query("streams")); raw != "" {
		streams = streams[:0]
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			switch name {
			case realtime.StreamSecurityAlerts, realtime.StreamDoorStatus:
				streams = append(streams, name)
			}
		}
		if len(streams) == 0 {
			response.Error(c, apperrors.NewBadRequest("no valid streams requested"))
			return
		}
	}

	h.hub.Serve(userID, streams, c.Writer, c.Request)
}
