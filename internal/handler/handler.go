package handler

import (
	"github.com/BloggingApp/moderation-service/internal/model"
	"github.com/BloggingApp/moderation-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

type Handler struct {
	services *service.Service
}

func New(services *service.Service) *Handler {
	return &Handler{
		services: services,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET", "PUT", "PATCH", "DELETE"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.POST("", h.authMiddleware, h.postsCreate)
			posts.GET("", h.notRequiredAuthMiddleware, h.postsGet)
			posts.GET("/my", h.authMiddleware, h.postsGetMy)
			posts.GET("/displayBuckets", h.postsDisplayBuckets)
			posts.PATCH("/edit", h.authMiddleware, h.postsEdit)

			post := posts.Group("/:postID")
			{
				post.GET("", h.notRequiredAuthMiddleware, h.postsGetByID)
				post.GET("/comments", h.notRequiredAuthMiddleware, h.commentsGet)
				post.POST("/comments", h.authMiddleware, h.commentsCreate)

				post.PUT("/approve", h.moderatorMiddleware, h.modApprove)
				post.PUT("/reject", h.moderatorMiddleware, h.modReject)
				post.PUT("/review", h.moderatorMiddleware, h.modPutUnderReview)
				post.GET("/transitions", h.moderatorMiddleware, h.modGetTransitions)
			}
		}

		follow := v1.Group("/follow")
		{
			follow.POST("", h.authMiddleware, h.followAuthor)
			follow.DELETE("", h.authMiddleware, h.unfollowAuthor)
			follow.GET("/check", h.followCheck)
			follow.GET("/count/:authorName", h.followCount)
			follow.GET("/following/:userID", h.followFollowing)
		}
	}

	return r
}

func callerFromClaims(claims jwt.MapClaims) (*model.Caller, error) {
	idString, ok := claims["id"].(string)
	if !ok {
		return nil, errNotAuthorized
	}
	id, err := uuid.Parse(idString)
	if err != nil {
		return nil, err
	}

	username, ok := claims["username"].(string)
	if !ok {
		return nil, errNotAuthorized
	}

	role, _ := claims["role"].(string)

	return &model.Caller{
		ID:       id,
		Username: username,
		Role:     role,
	}, nil
}

func (h *Handler) getCallerFromRequest(c *gin.Context) *model.Caller {
	callerReq, _ := c.Get("caller")

	caller, ok := callerReq.(model.Caller)
	if !ok {
		return nil
	}

	return &caller
}
