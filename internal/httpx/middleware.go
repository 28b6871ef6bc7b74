package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dineat/restaurant-api/internal/user"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("rid", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rid, _ := c.Get("rid")
		log.Info("http",
			slog.Any("rid", rid),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("dur", time.Since(start)))
	}
}

// Current is the caller the upstream identity provider asserted for this
// request. The service trusts the headers unconditionally.
type Current struct {
	ID   string
	Role string
}

const currentKey = "currentUser"

// Identity pulls X-User-ID / X-User-Role off the request. Requests without an
// identity are rejected; routes behind this middleware are all login-gated.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-User-ID")
		role := c.GetHeader("X-User-Role")
		if role == "" {
			role = user.RoleCustomer
		}
		if id == "" || !user.ValidRole(role) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(currentKey, Current{ID: id, Role: role})
		c.Next()
	}
}

// CurrentUser returns the identity set by Identity.
func CurrentUser(c *gin.Context) (Current, bool) {
	v, ok := c.Get(currentKey)
	if !ok {
		return Current{}, false
	}
	cur, ok := v.(Current)
	return cur, ok
}

// RequireRoles gates a route to the listed roles.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		cur, ok := CurrentUser(c)
		if !ok || !allowed[cur.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}
