package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgServerError = "Something went wrong. Please try again later."
	msgNotFound    = "The page you are looking for does not exist."
)

// logAndRenderError logs err under logKey and answers with an error page.
func (h *Handler) logAndRenderError(c *gin.Context, status int, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err, "path", c.Request.URL.Path}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	msg := msgServerError
	if status < http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	h.renderError(c, status, msg)
}

// recoverPanic is the last resort for panics in request handling.
func (h *Handler) recoverPanic(c *gin.Context, recovered any) {
	h.log.Errorw("panic_recovered", "panic", recovered, "path", c.Request.URL.Path)
	if !c.Writer.Written() {
		h.renderError(c, http.StatusInternalServerError, msgServerError)
	}
	c.Abort()
}

func (h *Handler) notFound(c *gin.Context) {
	h.renderError(c, http.StatusNotFound, msgNotFound)
}
