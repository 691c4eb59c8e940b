package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ateliernoor.nl/app/internal/modules/users"
)

const CtxKeyUser = "current_user"

type AuthUser struct {
	ID    string
	Email string
	Name  string
	Role  string
}

func (u AuthUser) IsAdmin() bool { return u.Role == "admin" }

// Session resolves the bearer token, if any, and stores the user on the
// context. Missing or invalid tokens are not an error here; route guards
// decide what is required.
func Session(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		u, err := users.NewRepo(db).BySessionToken(c.Request.Context(), token)
		if err == nil {
			c.Set(CtxKeyUser, AuthUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role})
		}

		c.Next()
	}
}

func CurrentUser(c *gin.Context) (AuthUser, bool) {
	if v, ok := c.Get(CtxKeyUser); ok {
		if u, ok := v.(AuthUser); ok {
			return u, true
		}
	}
	return AuthUser{}, false
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "authentication required",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "authentication required",
				"request_id": GetRequestID(c),
			})
			return
		}
		if !u.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "forbidden",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	// fallback for browser downloads (label proxy links)
	if v, err := c.Cookie("session_token"); err == nil {
		return v
	}
	return ""
}
