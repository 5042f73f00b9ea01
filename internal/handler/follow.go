package handler

import (
	"net/http"
	"strings"

	"github.com/BloggingApp/moderation-service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) followAuthor(c *gin.Context) {
	caller := h.getCallerFromRequest(c)

	var input dto.FollowRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Follow.Follow(c.Request.Context(), *caller, input.AuthorName); err != nil {
		c.JSON(serviceErrStatus(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "now following "+input.AuthorName))
}

func (h *Handler) unfollowAuthor(c *gin.Context) {
	caller := h.getCallerFromRequest(c)

	var input dto.FollowRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.Follow.Unfollow(c.Request.Context(), *caller, input.AuthorName); err != nil {
		c.JSON(serviceErrStatus(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "unfollowed "+input.AuthorName))
}

func (h *Handler) followCheck(c *gin.Context) {
	userID, err := uuid.Parse(strings.TrimSpace(c.Query("userId")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidUserID.Error()))
		return
	}
	authorName := c.Query("authorName")

	isFollowing, err := h.services.Follow.IsFollowing(c.Request.Context(), userID, authorName)
	if err != nil {
		c.JSON(serviceErrStatus(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"isFollowing": isFollowing})
}

func (h *Handler) followCount(c *gin.Context) {
	authorName := strings.TrimSpace(c.Param("authorName"))

	count, err := h.services.Follow.CountFollowers(c.Request.Context(), authorName)
	if err != nil {
		c.JSON(serviceErrStatus(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) followFollowing(c *gin.Context) {
	userID, err := uuid.Parse(strings.TrimSpace(c.Param("userID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidUserID.Error()))
		return
	}

	following, err := h.services.Follow.FindFollowing(c.Request.Context(), userID)
	if err != nil {
		c.JSON(serviceErrStatus(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, following)
}
