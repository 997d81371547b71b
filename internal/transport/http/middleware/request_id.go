package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bonattii/secrets-auth-project/internal/infra/logger"
)

// headerRequestID carries the correlation id. Browsers never send one, so in
// practice every page request gets a freshly minted id.
const headerRequestID = "X-Request-ID"

// RequestID tags each request with a correlation id, echoes it on the
// response, and makes it available to the access logger through the request
// context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(headerRequestID, id)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey{}, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
