package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sheetbridge/busybusy-export/internal/logger"
	"github.com/sheetbridge/busybusy-export/internal/requestdata"
)

// apiKeyHeader is the header the upstream API itself authenticates with; the
// service forwards the caller's key verbatim.
const apiKeyHeader = "key-authorization"

// minAPIKeyLength rejects obviously malformed keys before any upstream call.
const minAPIKeyLength = 20

type AuthMiddleware struct {
	log *logger.Logger
}

func NewAuthMiddleware(log *logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware")}
}

// RequireAPIKey pulls the caller's upstream API key off the request, tags the
// request with an id and stashes both in the context for handlers and logs.
func (am *AuthMiddleware) RequireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := strings.TrimSpace(c.GetHeader(apiKeyHeader))
		if len(apiKey) < minAPIKeyLength {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid api key"})
			return
		}
		rd := &requestdata.RequestData{
			APIKey:    apiKey,
			RequestID: uuid.NewString(),
		}
		ctx := requestdata.WithRequestData(c.Request.Context(), rd)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-Id", rd.RequestID)
		c.Next()
	}
}
