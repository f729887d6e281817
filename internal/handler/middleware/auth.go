package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"storefront-core/internal/domain/user"
	"storefront-core/internal/handler/httperr"
	"storefront-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TokenAuthenticator resolves a bearer token to the caller identity.
type TokenAuthenticator interface {
	Authenticate(token string) (uuid.UUID, user.Role, error)
}

type AuthMiddleware struct {
	authenticator TokenAuthenticator
	logger        *slog.Logger
}

const (
	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
)

var roleHierarchy = map[user.Role]int{
	user.RoleBuyer:  1,
	user.RoleSeller: 2,
	user.RoleAdmin:  3,
}

var (
	errMissingToken = errs.New("missing bearer token")
	errNoIdentity   = errs.New("role check used without RequireAuth")
)

func NewAuthMiddleware(authenticator TokenAuthenticator, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		logger:        logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		userID, role, err := m.authenticator.Authenticate(token)
		if err != nil {
			m.logger.Warn("token validation failed", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Set(ctxUserRoleKey, role)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func hasMinimumRole(userRole, minRole user.Role) bool {
	userLevel, userExists := roleHierarchy[userRole]
	minLevel, minExists := roleHierarchy[minRole]
	return userExists && minExists && userLevel >= minLevel
}

// RequireRoleAtLeast must run after RequireAuth.
func (m *AuthMiddleware) RequireRoleAtLeast(minRole user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, errNoIdentity, "Internal server error", nil)
			return
		}

		if !hasMinimumRole(role, minRole) {
			err := errs.Forbidden(nil, "Insufficient permissions")
			httperr.AbortWithError(c, http.StatusForbidden, err, err.Message, nil)
			return
		}

		c.Next()
	}
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}

func GetUserRole(c *gin.Context) (user.Role, bool) {
	userRole, exists := c.Get(ctxUserRoleKey)
	if !exists {
		return "", false
	}

	role, ok := userRole.(user.Role)
	return role, ok
}
