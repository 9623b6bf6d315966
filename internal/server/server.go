package server

import (
	"context"
	"errors"
	"log/slog"
	"neonttt/Tic-Tac-Toe/internal/api/controller"
	"neonttt/Tic-Tac-Toe/internal/api/middleware"
	"neonttt/Tic-Tac-Toe/internal/api/response"
	"neonttt/Tic-Tac-Toe/internal/api/service"
	"neonttt/Tic-Tac-Toe/internal/game"
	"neonttt/Tic-Tac-Toe/internal/hub/types"
	"neonttt/Tic-Tac-Toe/internal/player"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

var errForeignSession = errors.New("player id belongs to a registered user")

// Registrar accepts websocket players. It is implemented by *hub.Hub.
type Registrar interface {
	Register() chan<- *types.RegistrationRequest
}

// Controllers are the REST handlers mounted under /api.
type Controllers struct {
	User     *controller.UserController
	Settings *controller.SettingsController
	Stats    *controller.StatsController
	Engine   *controller.EngineController
}

// Server wires the websocket endpoint, the REST API and the static web client.
type Server struct {
	hub         Registrar
	controllers Controllers
	tokens      middleware.TokenParser
	webDir      string
	upgrader    websocket.Upgrader
	engine      *gin.Engine
}

func NewServer(h Registrar, controllers Controllers, tokens middleware.TokenParser, webDir string) *Server {
	s := &Server{
		hub:         h,
		controllers: controllers,
		tokens:      tokens,
		webDir:      webDir,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine = s.routes()
	return s
}

// Engine returns the HTTP handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/ws", s.handleWebSocket)

	api := r.Group("/api")
	{
		users := api.Group("/users")
		users.POST("/register", s.controllers.User.Register)
		users.POST("/login", s.controllers.User.Login)
		users.POST("/guest", s.controllers.User.GuestLogin)

		settings := api.Group("/settings", middleware.OptionalJWT(s.tokens))
		settings.GET("", s.controllers.Settings.Get)
		settings.PUT("", s.controllers.Settings.Update)

		api.GET("/stats", middleware.JWTAuth(s.tokens), s.controllers.Stats.Get)

		engine := api.Group("/engine")
		engine.POST("/move", s.controllers.Engine.Move)
		engine.POST("/outcome", s.controllers.Engine.Outcome)
		engine.POST("/apply", s.controllers.Engine.Apply)
	}

	r.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.webDir))))
	return r
}

// handleWebSocket validates the query, upgrades the connection and hands the
// player to the hub. The hub decides whether the session is new, restored or live.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	var mode game.Mode
	if raw := c.Query("mode"); raw != "" {
		parsed, err := game.ParseMode(raw)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Invalid game mode")
			response.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		mode = parsed
	}

	playerID, userID, err := s.resolvePlayer(c.Query("playerId"), c.Query("token"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Rejected player")
		status := http.StatusUnauthorized
		if errors.Is(err, errForeignSession) {
			status = http.StatusForbidden
		}
		response.ErrorResponse(c, status, err.Error())
		return
	}
	span.SetAttributes(
		attribute.String("player.id", playerID),
		attribute.Int64("user.id", userID),
		attribute.String("game.mode", string(mode)),
	)

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to upgrade connection", "player.id", playerID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	p := player.NewPlayer(playerID, conn)
	p.UserID = userID

	// The hub outlives this handler, so it gets the span but not the cancellation.
	s.hub.Register() <- &types.RegistrationRequest{
		Player: p,
		Mode:   mode,
		Ctx:    context.WithoutCancel(ctx),
	}
}

// resolvePlayer picks the session id: a registered user always resumes
// "user-<id>", guests keep their own id or get a fresh one.
func (s *Server) resolvePlayer(playerID, token string) (string, int64, error) {
	if token != "" {
		userID, err := s.tokens.ParseToken(token)
		if err != nil {
			return "", 0, err
		}
		return service.UserPlayerID(userID), userID, nil
	}
	if strings.HasPrefix(playerID, service.UserPlayerIDPrefix) {
		return "", 0, errForeignSession
	}
	if playerID == "" {
		playerID = uuid.New().String()
	}
	return playerID, 0, nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.DebugContext(c.Request.Context(), "HTTP request",
			"http.method", c.Request.Method,
			"http.path", c.Request.URL.Path,
			"http.status", c.Writer.Status(),
			"http.duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
