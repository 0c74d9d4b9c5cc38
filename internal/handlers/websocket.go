package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tucktruck/tucktruck-backend/internal/models"
	"github.com/tucktruck/tucktruck-backend/internal/services"
)

// WebSocketHandler upgrades the connection and registers it with the hub
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := models.Role(c.GetString("role"))

		services.HandleWebSocket(hub, c.Writer, c.Request, userID, role)
	}
}
