package router

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"esgboard/internal/handlers"
	"esgboard/internal/utils"
)

const (
	csrfTokenSessionKey = "csrf_token"
	csrfTokenFormKey    = "_csrf"
	csrfTokenHeaderKey  = "X-CSRF-Token"
)

// CSRFProtection guards the cookie-session routes. The token lives in the
// session and must come back in the form or the X-CSRF-Token header on every
// unsafe request.
func CSRFProtection() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		token, ok := session.Get(csrfTokenSessionKey).(string)
		if !ok {
			newToken, err := utils.GenerateSecureToken(32)
			if err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to generate CSRF token"))
				return
			}
			token = newToken
			session.Set(csrfTokenSessionKey, token)
			if err := session.Save(); err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to save session"))
				return
			}
		}

		c.Set(handlers.CSRFContextKey, token)

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			submitted := c.PostForm(csrfTokenFormKey)
			if submitted == "" {
				submitted = c.GetHeader(csrfTokenHeaderKey)
			}
			if !utils.TokensEqual(submitted, token) {
				c.AbortWithError(http.StatusForbidden, errors.New("invalid CSRF token"))
				return
			}
		}

		c.Next()
	}
}
