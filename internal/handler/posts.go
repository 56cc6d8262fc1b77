package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/board-service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func parsePostID(c *gin.Context) (uuid.UUID, bool) {
	postID, err := uuid.Parse(strings.TrimSpace(c.Param("postID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errInvalidPostID))
		return uuid.Nil, false
	}

	return postID, true
}

func (h *Handler) postsCreate(c *gin.Context) {
	requester := h.getRequesterFromRequest(c)

	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), *requester, input)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, *createdPost)
}

func (h *Handler) postsGet(c *gin.Context) {
	var input dto.GetPostsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	page, err := h.services.Post.FindMany(c.Request.Context(), input.Page, input.Limit, input.Search)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) postsGetMy(c *gin.Context) {
	requester := h.getRequesterFromRequest(c)

	posts, err := h.services.Post.FindMy(c.Request.Context(), *requester)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetByID(c *gin.Context) {
	requester := h.getRequesterFromRequest(c)

	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), postID, requester)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsEdit(c *gin.Context) {
	requester := h.getRequesterFromRequest(c)

	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	var input dto.EditPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	post, err := h.services.Post.Update(c.Request.Context(), postID, *requester, input)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsDelete(c *gin.Context) {
	requester := h.getRequesterFromRequest(c)

	postID, ok := parsePostID(c)
	if !ok {
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), postID, *requester); err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) authorsGetByID(c *gin.Context) {
	userID, err := uuid.Parse(strings.TrimSpace(c.Param("userID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errInvalidID))
		return
	}

	user, err := h.services.UserCache.FindByID(c.Request.Context(), userID)
	if err != nil {
		newErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
