package controller

import (
	"neonttt/Tic-Tac-Toe/internal/api/middleware"
	"neonttt/Tic-Tac-Toe/internal/api/response"
	"neonttt/Tic-Tac-Toe/internal/api/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatsController serves the statistics of the authenticated user.
type StatsController struct {
	statsService service.StatsService
}

// NewStatsController creates a new StatsController.
func NewStatsController(statsService service.StatsService) *StatsController {
	return &StatsController{statsService: statsService}
}

// Get must run behind middleware.JWTAuth.
func (sc *StatsController) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	stats, err := sc.statsService.GetStats(c.Request.Context(), userID)
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.SuccessResponse(c, stats)
}
