package middleware

import (
	"neonttt/Tic-Tac-Toe/internal/api/response"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// TokenParser resolves a bearer token to a user id.
type TokenParser interface {
	ParseToken(token string) (int64, error)
}

// JWTAuth rejects requests without a valid "Authorization: Bearer <token>" header
// and stores the user id for UserID.
func JWTAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.AbortResponse(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userID, err := parser.ParseToken(token)
		if err != nil {
			response.AbortResponse(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalJWT is JWTAuth for routes guests may use too: a request without
// an Authorization header passes through anonymously.
func OptionalJWT(parser TokenParser) gin.HandlerFunc {
	required := JWTAuth(parser)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		required(c)
	}
}

// UserID returns the id stored by JWTAuth.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
