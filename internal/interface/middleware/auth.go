package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yogasw/expense-tracker-api/internal/application"
	"github.com/yogasw/expense-tracker-api/pkg/helpers"
	"github.com/yogasw/expense-tracker-api/pkg/response"
)

const identityKey = "identity"

// Identity is the authenticated caller attached to the request by Auth.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// IdentityFrom returns the authenticated identity set by Auth. The bool
// is false on routes that skipped the guard.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// Auth validates the Authorization bearer token, resolves it to a stored
// user, and attaches the caller's Identity to the request. Tokens of
// deleted users are rejected the same way as forged ones.
func Auth(svc *application.AuthService, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, "access token required", nil)
			return
		}

		claims, err := jwt.ParseToken(token)
		if err != nil {
			if errors.Is(err, helpers.ErrTokenExpired) {
				response.AbortFail(c, http.StatusUnauthorized, "token expired", nil)
				return
			}
			response.AbortFail(c, http.StatusUnauthorized, "invalid token", nil)
			return
		}

		u, err := svc.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, application.ErrUserNotFound) {
				response.AbortFail(c, http.StatusUnauthorized, "invalid token - user not found", nil)
				return
			}
			response.AbortFail(c, http.StatusInternalServerError, "authentication error", nil)
			return
		}

		c.Set(identityKey, Identity{ID: u.ID, Email: u.Email, Name: u.Name})
		c.Next()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
