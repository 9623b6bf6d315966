package controller

import (
	"errors"
	"log/slog"
	"neonttt/Tic-Tac-Toe/internal/api/models"
	"neonttt/Tic-Tac-Toe/internal/api/response"
	"neonttt/Tic-Tac-Toe/internal/api/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserController serves account registration and the two ways to get a session id.
type UserController struct {
	userService service.UserService
}

// NewUserController creates a new UserController.
func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// Register creates an account; 409 when the name is taken.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := uc.userService.Register(c.Request.Context(), &req)
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		response.ErrorResponse(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		slog.ErrorContext(c.Request.Context(), "Failed to register user", "user.name", req.Username, "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "could not register user")
		return
	}

	slog.InfoContext(c.Request.Context(), "User registered", "user.id", resp.ID)
	response.SuccessResponse(c, resp)
}

// Login exchanges credentials for a bearer token; 401 on any mismatch.
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := uc.userService.Login(c.Request.Context(), &req)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.ErrorResponse(c, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		slog.ErrorContext(c.Request.Context(), "Failed to log in user", "user.name", req.Username, "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "could not log in")
		return
	}

	response.SuccessResponse(c, resp)
}

// GuestLogin hands out a fresh anonymous session id.
func (uc *UserController) GuestLogin(c *gin.Context) {
	playerID, err := uc.userService.GuestLogin(c.Request.Context())
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.SuccessResponse(c, models.GuestResponse{PlayerID: playerID})
}
