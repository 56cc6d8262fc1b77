package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/board-service/internal/dto"
	"github.com/BloggingApp/board-service/internal/model"
	"github.com/BloggingApp/board-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) authMiddleware(c *gin.Context) {
	accessToken, ok := bearerToken(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		return
	}

	requester, err := h.requesterFromAccessToken(accessToken)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		return
	}

	c.Set(requesterKey, *requester)

	c.Next()
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}

	accessToken := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if accessToken == "" {
		return "", false
	}

	return accessToken, true
}

// requesterFromAccessToken trusts the identity the auth service signed into the token.
func (h *Handler) requesterFromAccessToken(accessToken string) (*model.Requester, error) {
	claims, err := utils.DecodeJWT(accessToken, h.accessSecret)
	if err != nil {
		return nil, err
	}

	idString, _ := claims["id"].(string)
	id, err := uuid.Parse(idString)
	if err != nil {
		return nil, errInvalidClaims
	}

	email, _ := claims["email"].(string)
	nickname, _ := claims["nickname"].(string)

	return &model.Requester{
		ID:       id,
		Email:    email,
		Nickname: nickname,
	}, nil
}
