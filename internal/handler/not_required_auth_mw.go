package handler

import (
	"os"
	"strings"

	"github.com/BloggingApp/moderation-service/pkg/utils"
	"github.com/gin-gonic/gin"
)

func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.Next()
		return
	}

	accessToken := strings.Split(header, " ")[1]
	if accessToken == "" {
		c.Next()
		return
	}

	claims, err := utils.DecodeJWT(accessToken, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		c.Next()
		return
	}

	caller, err := callerFromClaims(claims)
	if err != nil {
		c.Next()
		return
	}

	c.Set("caller", *caller)

	c.Next()
}
