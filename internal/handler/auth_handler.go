package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolgate/webclient/internal/middleware"
	"github.com/schoolgate/webclient/internal/service"
	appErrors "github.com/schoolgate/webclient/pkg/errors"
)

// AuthHandler serves the login page and owns the session cookie.
type AuthHandler struct {
	base
	service    *service.AuthService
	cookieName string
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, cookieName string, degraded bool) *AuthHandler {
	return &AuthHandler{base: base{degraded: degraded}, service: svc, cookieName: cookieName}
}

// Root sends the visitor to the dashboard matching their role, or to
// the login page when anonymous.
func (h *AuthHandler) Root(c *gin.Context) {
	c.Redirect(http.StatusFound, roleHome(middleware.CurrentUser(c)))
}

// ShowLogin renders the login form. A live session skips it entirely.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		c.Redirect(http.StatusFound, roleHome(user))
		return
	}
	data := h.page(c, "Masuk")
	data["Username"] = ""
	c.HTML(http.StatusOK, "login.html", data)
}

// Login handles the form POST. Failure re-renders the form with the
// gateway's message; success sets the session cookie and redirects.
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	_ = c.ShouldBind(&req)

	user, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		appErr := appErrors.FromError(err)
		data := h.page(c, "Masuk")
		data["Error"] = appErr.Message
		data["Username"] = req.Username
		c.HTML(appErr.Status, "login.html", data)
		return
	}

	// session-scoped cookie: MaxAge 0 means it dies with the browser
	c.SetCookie(h.cookieName, token, 0, "/", "", false, true)
	c.Redirect(http.StatusFound, roleHome(user))
}

// Logout clears the session cookie unconditionally.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}
