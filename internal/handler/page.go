package handler

import (
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/schoolgate/webclient/internal/middleware"
	"github.com/schoolgate/webclient/internal/models"
)

// base carries page-level state shared by every handler: whether the
// app runs against the demo gateway.
type base struct {
	degraded bool
}

// page assembles the common template data: title, session user, the
// degraded-mode banner flag and any flash message carried over a
// redirect via the msg/err query params.
func (b base) page(c *gin.Context, title string) gin.H {
	data := gin.H{
		"Title":    title,
		"User":     middleware.CurrentUser(c),
		"Degraded": b.degraded,
	}
	if msg := c.Query("msg"); msg != "" {
		data["Flash"] = msg
	}
	if errMsg := c.Query("err"); errMsg != "" {
		data["Error"] = errMsg
	}
	return data
}

// withFlash appends a flash message to a redirect target.
func withFlash(target, key, message string) string {
	if message == "" {
		return target
	}
	return target + "?" + key + "=" + url.QueryEscape(message)
}

// roleHome is the dashboard path for a user's role.
func roleHome(user *models.User) string {
	if user == nil {
		return "/login"
	}
	if user.IsTeacher() {
		return "/teacher"
	}
	return "/student"
}
