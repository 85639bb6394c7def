package router

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"esgboard/internal/handlers"
	"esgboard/internal/utils"
)

// NonceMiddleware keeps a cryptographic nonce in the session and adds it to
// the Gin context for use in headers and templates.
func NonceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		nonce, ok := session.Get(handlers.NonceContextKey).(string)
		if !ok {
			var err error
			nonce, err = utils.GenerateSecureToken(32)
			if err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to generate CSP nonce"))
				return
			}
			session.Set(handlers.NonceContextKey, nonce)
			if err := session.Save(); err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to save session"))
				return
			}
		}

		c.Set(handlers.NonceContextKey, nonce)
		c.Next()
	}
}
