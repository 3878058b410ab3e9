package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) home(c *gin.Context) {
	c.HTML(http.StatusOK, pageHome, sessionPage{
		Title:   pageTitle(pageHome),
		Session: currentSession(c),
	})
}

// members is only reachable through requireSession.
func (h *Handler) members(c *gin.Context) {
	c.HTML(http.StatusOK, pageMembers, sessionPage{
		Title:   pageTitle(pageMembers),
		Session: currentSession(c),
		Image:   memberImages[h.pick(len(memberImages))],
	})
}
