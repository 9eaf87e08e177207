package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sm8ta/bike_inventory_service/internal/adapter/logger"
	"github.com/sm8ta/bike_inventory_service/internal/core/domain"
	"github.com/sm8ta/bike_inventory_service/internal/core/ports"
)

const (
	requestIDHeader         = "X-Request-ID"
	authorizationHeaderKey  = "Authorization"
	authorizationTypeBearer = "bearer"
	authorizationPayloadKey = "authorization_payload"
)

// RequestIDMiddleware keeps the caller's X-Request-ID or makes a new one and
// puts it on the request context for the logger.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

func AuthMiddleware(tokenService ports.TokenService, log ports.LoggerPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authorizationHeaderKey)
		if header == "" {
			newErrorResponse(c, http.StatusUnauthorized, "Authorization header is not provided")
			return
		}

		fields := strings.Fields(header)
		if len(fields) != 2 || strings.ToLower(fields[0]) != authorizationTypeBearer {
			newErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		payload, err := tokenService.VerifyToken(fields[1])
		if err != nil {
			log.WithContext(c.Request.Context()).Warn("Rejected bearer token", map[string]interface{}{
				"error": err.Error(),
				"ip":    c.ClientIP(),
			})
			newErrorResponse(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		if !payload.CanWrite() {
			newErrorResponse(c, http.StatusForbidden, "Access denied")
			return
		}

		c.Set(authorizationPayloadKey, payload)
		c.Next()
	}
}

func getAuthPayload(c *gin.Context, key string) (*domain.TokenPayload, bool) {
	value, exists := c.Get(key)
	if !exists {
		return nil, false
	}
	payload, ok := value.(*domain.TokenPayload)
	return payload, ok
}
