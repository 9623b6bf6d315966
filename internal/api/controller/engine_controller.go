package controller

import (
	"errors"
	"neonttt/Tic-Tac-Toe/internal/api/models"
	"neonttt/Tic-Tac-Toe/internal/api/response"
	"neonttt/Tic-Tac-Toe/internal/api/service"
	"neonttt/Tic-Tac-Toe/internal/game"
	"net/http"

	"github.com/gin-gonic/gin"
)

// EngineController gives stateless HTTP access to the rules engine and the AI.
type EngineController struct {
	engineService service.EngineService
}

// NewEngineController creates a new EngineController.
func NewEngineController(engineService service.EngineService) *EngineController {
	return &EngineController{engineService: engineService}
}

// Move selects an AI move. Unknown difficulties play as medium.
func (ec *EngineController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	board, err := game.ParseBoard(req.Board)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	index, ok := ec.engineService.SelectMove(c.Request.Context(), board, game.Difficulty(req.Difficulty), req.AIMark)
	response.SuccessResponse(c, models.MoveResponse{Index: index, OK: ok})
}

// Outcome evaluates a board.
func (ec *EngineController) Outcome(c *gin.Context) {
	var req models.OutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	board, err := game.ParseBoard(req.Board)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	response.SuccessResponse(c, ec.engineService.Outcome(board))
}

// Apply places a mark and returns the new board with its outcome.
func (ec *EngineController) Apply(c *gin.Context) {
	var req models.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	board, err := game.ParseBoard(req.Board)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	next, outcome, err := ec.engineService.Apply(board, *req.Index, req.Mark)
	if errors.Is(err, game.ErrInvalidMove) {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.SuccessResponse(c, models.ApplyResponse{Board: next[:], Outcome: outcome})
}
