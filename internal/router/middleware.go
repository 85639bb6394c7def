package router

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"esgboard/internal/auth"
	"esgboard/internal/dto"
	"esgboard/internal/handlers"
	"esgboard/internal/i18n"
	"esgboard/internal/repository"
)

const sessionLangKey = "lang"

// LangMiddleware resolves the response language from the lang query
// parameter or the Accept-Language header.
func LangMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(handlers.LangContextKey, i18n.Resolve(c.Query("lang"), c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// SessionLang remembers an explicit language choice in the browser session.
func SessionLang() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if l, ok := i18n.Parse(c.Query("lang")); ok {
			session.Set(sessionLangKey, string(l))
			_ = session.Save()
		} else if s, ok := session.Get(sessionLangKey).(string); ok {
			if l, ok := i18n.Parse(s); ok {
				c.Set(handlers.LangContextKey, l)
			}
		}
		c.Next()
	}
}

func resolveLang(c *gin.Context) i18n.Lang {
	if v, ok := c.Get(handlers.LangContextKey); ok {
		if l, ok := v.(i18n.Lang); ok {
			return l
		}
	}
	return i18n.Default
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Envelope[any]{
		Status:  http.StatusUnauthorized,
		Message: i18n.T(resolveLang(c), "msg.unauthorized"),
	})
}

// BearerAuth loads the user named by a valid access token into the context.
// Missing, expired or foreign tokens get a 401 envelope.
func BearerAuth(log *zap.Logger, tokens *auth.Manager, repo *repository.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			unauthorized(c)
			return
		}
		claims, err := tokens.ParseAccess(strings.TrimSpace(raw))
		if err != nil {
			log.Debug("Rejected access token", zap.Error(err))
			unauthorized(c)
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			unauthorized(c)
			return
		}
		user, err := repo.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			// The account is gone; its tokens are worthless.
			unauthorized(c)
			return
		}
		c.Set(handlers.UserContextKey, user)
		c.Next()
	}
}

// UserLoaderMiddleware checks for a userID in the session.
// If found, it loads the user from the database and adds it to the context.
// This ensures we don't have "zombie" sessions for users who no longer exist.
func UserLoaderMiddleware(log *zap.Logger, repo *repository.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(handlers.SessionUserKey).(uint)
		if !ok {
			// No user ID in session, proceed as a guest.
			c.Next()
			return
		}

		user, err := repo.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			log.Debug("Dropping session of unknown user", zap.Uint("userID", userID), zap.Error(err))
			session.Delete(handlers.SessionUserKey)
			_ = session.Save()
			c.Next()
			return
		}

		c.Set(handlers.UserContextKey, user)
		c.Next()
	}
}

// AuthRequired redirects guests to the dashboard login page.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(handlers.UserContextKey); !exists {
			c.Redirect(http.StatusFound, "/dashboard/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
