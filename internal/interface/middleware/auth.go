package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/account-ledger/internal/application"
	"github.com/oksasatya/account-ledger/internal/domain/entity"
	"github.com/oksasatya/account-ledger/pkg/helpers"
	"github.com/oksasatya/account-ledger/pkg/response"
)

const (
	CtxSessionKey   = "session"
	CtxAccountIDKey = "accountID"
)

// Auth validates the access token cookie against the account's active session.
// It sets session and accountID in the Gin context on success.
func Auth(auth *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.AccessCookie)
		if err != nil || token == "" {
			resp := response.Build[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		sess, err := auth.Resolve(c.Request.Context(), token)
		if err != nil {
			msg := "session not found"
			status := http.StatusUnauthorized
			if !errors.Is(err, entity.ErrInvalidCredentials) {
				msg, status = "session lookup failed", http.StatusInternalServerError
			}
			resp := response.Build[any](c, status, msg, nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Set(CtxSessionKey, sess)
		c.Set(CtxAccountIDKey, sess.AccountID)
		c.Next()
	}
}

// SessionFrom returns the session stored by Auth.
func SessionFrom(c *gin.Context) (entity.Session, bool) {
	v, ok := c.Get(CtxSessionKey)
	if !ok {
		return entity.Session{}, false
	}
	sess, ok := v.(entity.Session)
	return sess, ok
}

// RequireAdmin rejects sessions without the administrator role. It must run
// after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := SessionFrom(c)
		if !ok || !sess.Role.IsAdministrator() {
			resp := response.Build[any](c, http.StatusForbidden, "administrator role required", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Next()
	}
}
