package handlers

import (
	"errors"
	"net/http"
	"time"

	"membership/internal/models"
	"membership/internal/service"

	"github.com/gin-gonic/gin"
)

// ctxSessionKey holds the request's *models.SessionData in the gin context.
const ctxSessionKey = "session"

// loadSession resolves the session cookie, if any, for the rest of the chain.
// Invalid cookies are cleared; store failures abort with 500.
func (h *Handler) loadSession(c *gin.Context) {
	token, err := c.Cookie(h.cookie.Name)
	if err != nil || token == "" {
		c.Next()
		return
	}

	data, err := h.services.Sessions.Resolve(c.Request.Context(), token)
	switch {
	case err == nil:
		c.Set(ctxSessionKey, data)
	case errors.Is(err, service.ErrNoSession):
		h.clearSessionCookie(c)
	default:
		h.logAndRenderError(c, http.StatusInternalServerError, "session_resolve_failed", err)
		c.Abort()
		return
	}
	c.Next()
}

// requireSession is the gate for member-only pages: without a session the
// visitor is sent home.
func (h *Handler) requireSession(c *gin.Context) {
	if currentSession(c) == nil {
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return
	}
	// gated pages must not be served from cache after logout
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	c.Header("Pragma", "no-cache")
	c.Next()
}

// currentSession returns the request-scoped session, or nil.
func currentSession(c *gin.Context) *models.SessionData {
	v, ok := c.Get(ctxSessionKey)
	if !ok {
		return nil
	}
	data, _ := v.(*models.SessionData)
	return data
}

func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	)
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
