package handler

import (
	"net/http"

	"github.com/BloggingApp/board-service/internal/dto"
	"github.com/BloggingApp/board-service/internal/model"
	"github.com/BloggingApp/board-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

const requesterKey = "requester"

type Handler struct {
	services     *service.Service
	accessSecret []byte
}

func New(services *service.Service, accessSecret []byte) *Handler {
	return &Handler{
		services:     services,
		accessSecret: accessSecret,
	}
}

func (h *Handler) newEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), metricsMiddleware)
	// cors.New panics on an empty origin
	if origin := viper.GetString("client.origin"); origin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{origin},
			AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// InitRoutes builds the board service router.
func (h *Handler) InitRoutes() *gin.Engine {
	r := h.newEngine()

	board := r.Group("/board")
	{
		board.POST("", h.authMiddleware, h.postsCreate)
		board.GET("", h.postsGet)
		board.GET("/my", h.authMiddleware, h.postsGetMy)
		board.GET("/authors/:userID", h.authorsGetByID)

		post := board.Group("/:postID")
		{
			post.GET("", h.notRequiredAuthMiddleware, h.postsGetByID)
			post.PATCH("", h.authMiddleware, h.postsEdit)
			post.DELETE("", h.authMiddleware, h.postsDelete)
		}
	}

	return r
}

// InitAuthRoutes builds the auth service router.
func (h *Handler) InitAuthRoutes() *gin.Engine {
	r := h.newEngine()

	auth := r.Group("/auth")
	{
		auth.POST("/signup", h.authSignUp)
		auth.POST("/signin", h.authSignIn)

		users := auth.Group("/users", h.authMiddleware)
		{
			users.GET("/:userID", h.usersGetByID)
			users.GET("/email/:email", h.usersGetByEmail)
			users.PATCH("/me", h.usersUpdateMe)
		}
	}

	return r
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "ok"))
}

func (h *Handler) getRequesterFromRequest(c *gin.Context) *model.Requester {
	requesterReq, _ := c.Get(requesterKey)

	requester, ok := requesterReq.(model.Requester)
	if !ok {
		return nil
	}

	return &requester
}
