//go:build unit

package api_test

import (
	"net/http"

	"storefront-core/internal/domain/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// testActor stands in for the bearer-token middleware. Suites change role
// between cases.
type testActor struct {
	id   uuid.UUID
	role user.Role
}

func newTestActor(role user.Role) *testActor {
	return &testActor{id: uuid.New(), role: role}
}

func (a *testActor) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", a.id)
		c.Set("user_role", a.role)
		c.Next()
	}
}
