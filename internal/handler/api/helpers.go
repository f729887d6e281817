package api

import (
	"net/http"

	"storefront-core/internal/domain/user"
	"storefront-core/internal/handler/httperr"
	"storefront-core/internal/handler/middleware"
	"storefront-core/internal/handler/validation"
	"storefront-core/internal/pkg/errs"
	"storefront-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errNoIdentity = errs.New("no authenticated identity in context")

// actor returns the authenticated caller or aborts with 401.
func actor(c *gin.Context) (uuid.UUID, user.Role, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "Unauthorized", nil)
		return uuid.Nil, "", false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoIdentity, "Unauthorized", nil)
		return uuid.Nil, "", false
	}
	return userID, role, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", validation.FieldErrors(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", validation.FieldErrors(err))
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

func cursorOf(raw string) *queries.Cursor {
	if raw == "" {
		return nil
	}
	return &queries.Cursor{After: raw}
}
