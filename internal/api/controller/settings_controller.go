package controller

import (
	"neonttt/Tic-Tac-Toe/internal/api/middleware"
	"neonttt/Tic-Tac-Toe/internal/api/models"
	"neonttt/Tic-Tac-Toe/internal/api/response"
	"neonttt/Tic-Tac-Toe/internal/api/service"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SettingsController serves player preferences.
type SettingsController struct {
	settingsService service.SettingsService
}

// NewSettingsController creates a new SettingsController.
func NewSettingsController(settingsService service.SettingsService) *SettingsController {
	return &SettingsController{settingsService: settingsService}
}

// authorize reports whether the request may touch playerID. The "user-<id>"
// sessions of registered users need that user's bearer token; guest ids are open.
// It writes the error response itself.
func authorize(c *gin.Context, playerID string) bool {
	if !strings.HasPrefix(playerID, service.UserPlayerIDPrefix) {
		return true
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		response.ErrorResponse(c, http.StatusUnauthorized, "bearer token required for a registered user")
		return false
	}
	if service.UserPlayerID(userID) != playerID {
		response.ErrorResponse(c, http.StatusForbidden, "player id belongs to another user")
		return false
	}
	return true
}

// Get returns the settings of ?playerId=, defaults when none were saved.
func (sc *SettingsController) Get(c *gin.Context) {
	playerID := c.Query("playerId")
	if playerID == "" {
		response.ErrorResponse(c, http.StatusBadRequest, "playerId is required")
		return
	}
	if !authorize(c, playerID) {
		return
	}

	settings, err := sc.settingsService.Get(c.Request.Context(), playerID)
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.SuccessResponse(c, settings)
}

// Update replaces the settings of a player.
func (sc *SettingsController) Update(c *gin.Context) {
	var req models.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if !authorize(c, req.PlayerID) {
		return
	}

	settings := req.Settings()
	if err := sc.settingsService.Update(c.Request.Context(), req.PlayerID, settings); err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.SuccessResponse(c, settings)
}
