package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/board-service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) authSignUp(c *gin.Context) {
	var input dto.SignUpRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	user, err := h.services.Auth.SignUp(c.Request.Context(), input)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) authSignIn(c *gin.Context) {
	var input dto.SignInRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	accessToken, err := h.services.Auth.SignIn(c.Request.Context(), input)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SignInResponse{AccessToken: accessToken})
}

func (h *Handler) usersGetByID(c *gin.Context) {
	userID, err := uuid.Parse(strings.TrimSpace(c.Param("userID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errInvalidID))
		return
	}

	user, err := h.services.Auth.FindByID(c.Request.Context(), userID)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) usersGetByEmail(c *gin.Context) {
	user, err := h.services.Auth.FindByEmail(c.Request.Context(), strings.TrimSpace(c.Param("email")))
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) usersUpdateMe(c *gin.Context) {
	requester := h.getRequesterFromRequest(c)

	var input dto.UpdateNicknameRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	user, err := h.services.Auth.UpdateNickname(c.Request.Context(), requester.ID, input.Nickname)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
