package middleware

import (
	"errors"
	"net/http"

	"github.com/agribase/backend/internal/domain/legacy"
	"github.com/agribase/backend/internal/domain/shared"
	"github.com/agribase/backend/internal/infrastructure/logger"
	"github.com/agribase/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FarmIDHeader selects the active farm for a request. The farm is never
// trusted from the token; membership is checked on every request.
const FarmIDHeader = "X-Farm-ID"

// Context keys populated by the farm guard
const (
	ContextKeyFarmID  = "farm_id"
	ContextKeyPartyID = "party_id"
)

// FarmGuard resolves the active farm from the X-Farm-ID header and enforces
// tenant access: the account must hold an active membership in that farm, and
// system administrator accounts are rejected outright so they never act
// through tenant-scoped endpoints. Rejections of admin accounts are logged as
// security events.
func FarmGuard(users legacy.UserRepository, members legacy.FarmMemberRepository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(FarmIDHeader)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, "Missing X-Farm-ID header", GetRequestID(c)))
			return
		}

		farmID, err := uuid.Parse(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidInput, "X-Farm-ID is not a valid UUID", GetRequestID(c)))
			return
		}

		userID, ok := GetUserID(c)
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				abortUnauthorized(c, "Account no longer exists")
				return
			}
			abortInternal(c)
			return
		}

		if user.IsSystemAdmin {
			log.Warn("system admin attempted tenant-scoped access",
				zap.String("security_event", "admin_tenant_access_denied"),
				zap.String("user_id", userID.String()),
				zap.String("farm_id", farmID.String()),
				zap.String("path", c.Request.URL.Path),
			)
			abortForbidden(c, "System administrator accounts cannot access farm data")
			return
		}

		if _, err := members.FindActive(c.Request.Context(), userID, farmID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				abortForbidden(c, "Not an active member of this farm")
				return
			}
			abortInternal(c)
			return
		}

		c.Set(ContextKeyFarmID, farmID)
		if user.PartyID != nil {
			c.Set(ContextKeyPartyID, *user.PartyID)
		}

		ctx, _ := logger.WithTenantID(c.Request.Context(), log, farmID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, message, GetRequestID(c)))
}

func abortInternal(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "An internal error occurred", GetRequestID(c)))
}

// GetFarmID returns the active farm id resolved by the guard
func GetFarmID(c *gin.Context) (uuid.UUID, bool) {
	if v, ok := c.Get(ContextKeyFarmID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

// GetPartyID returns the authenticated account's party id, when the account
// has been migrated into the party model
func GetPartyID(c *gin.Context) (uuid.UUID, bool) {
	if v, ok := c.Get(ContextKeyPartyID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}
