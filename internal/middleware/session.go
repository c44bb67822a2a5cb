package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolgate/webclient/internal/models"
	"github.com/schoolgate/webclient/internal/service"
)

// ContextUserKey is the gin context key storing the session user.
const ContextUserKey = "currentUser"

// Session restores the user from the session cookie. A missing, forged
// or expired cookie leaves the request anonymous; a bad cookie is also
// cleared so the browser stops resending it.
func Session(authService *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := authService.ParseSession(token)
		if err != nil {
			c.SetCookie(cookieName, "", -1, "/", "", false, true)
			c.Next()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the session user attached by Session, or nil for
// anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireTeacher gates teacher-only pages. Students are bounced back to
// their own dashboard rather than shown an error page.
func RequireTeacher() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if !user.IsTeacher() {
			c.Redirect(http.StatusFound, "/student")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStudent gates the student area the same way.
func RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if user.Role != models.RoleStudent {
			c.Redirect(http.StatusFound, "/teacher")
			c.Abort()
			return
		}
		c.Next()
	}
}
