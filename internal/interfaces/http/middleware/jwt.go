package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/agribase/backend/internal/infrastructure/auth"
	"github.com/agribase/backend/internal/infrastructure/logger"
	"github.com/agribase/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys populated by the auth middleware
const (
	ContextKeyClaims = "jwt_claims"
	ContextKeyUserID = "user_id"
)

// JWTAuth validates the Authorization bearer token and stores the verified
// claims on the request. The token identifies the account only; the active
// farm is resolved separately by the farm guard.
func JWTAuth(jwtService *auth.JWTService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			abortUnauthorized(c, "Missing or malformed Authorization header")
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				abortUnauthorized(c, "Token has expired")
			case errors.Is(err, auth.ErrTokenNotYetValid):
				abortUnauthorized(c, "Token is not valid yet")
			default:
				abortUnauthorized(c, "Invalid token")
			}
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUserID, claims.UserID)

		ctx, _ := logger.WithUserID(c.Request.Context(), log, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", auth.ErrInvalidToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}

// GetClaims returns the verified token claims, or nil before JWTAuth has run
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ContextKeyClaims); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the authenticated account id
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	claims := GetClaims(c)
	if claims == nil {
		return uuid.Nil, false
	}
	id, err := claims.GetUserUUID()
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
