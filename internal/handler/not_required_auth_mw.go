package handler

import (
	"github.com/gin-gonic/gin"
)

// notRequiredAuthMiddleware attaches the requester when a valid token is sent
// and lets anonymous requests through otherwise.
func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	accessToken, ok := bearerToken(c)
	if !ok {
		c.Next()
		return
	}

	requester, err := h.requesterFromAccessToken(accessToken)
	if err != nil {
		c.Next()
		return
	}

	c.Set(requesterKey, *requester)

	c.Next()
}
