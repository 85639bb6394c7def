package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"esgboard/internal/dto"
	"esgboard/internal/i18n"
	"esgboard/internal/models"
)

// Context keys shared with the router middleware.
const (
	UserContextKey = "user"
	LangContextKey = "lang"
)

// Year bounds accepted by every year-scoped endpoint.
const (
	MinYear = 2000
	MaxYear = 2100
)

// respond writes the JSON envelope. The transport status always matches the
// envelope status.
func respond[T any](c *gin.Context, status int, data T, message string) {
	c.JSON(status, dto.Envelope[T]{Status: status, Data: data, Message: message})
}

func success[T any](c *gin.Context, data T) {
	respond(c, http.StatusOK, data, i18n.T(langOf(c), "msg.ok"))
}

// fail aborts with an envelope carrying a localized message.
func fail(c *gin.Context, status int, key string, args ...any) {
	c.AbortWithStatusJSON(status, dto.Envelope[any]{
		Status:  status,
		Message: i18n.Tf(langOf(c), key, args...),
	})
}

// langOf returns the language resolved by the router, falling back to the
// request's own lang parameter.
func langOf(c *gin.Context) i18n.Lang {
	if v, ok := c.Get(LangContextKey); ok {
		if l, ok := v.(i18n.Lang); ok {
			return l
		}
	}
	return i18n.Resolve(c.Query("lang"), c.GetHeader("Accept-Language"))
}

func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserContextKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}

// mustUser fetches the authenticated user or aborts with 401.
func mustUser(c *gin.Context) (*models.User, bool) {
	u, ok := currentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "msg.unauthorized")
	}
	return u, ok
}

// queryYear parses and range-checks the year parameter, aborting on failure.
func queryYear(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < MinYear || year > MaxYear {
		fail(c, http.StatusBadRequest, "msg.invalidYear", MinYear, MaxYear)
		return 0, false
	}
	return year, true
}

func tr(c *gin.Context, key string, args ...any) string {
	return i18n.Tf(langOf(c), key, args...)
}
