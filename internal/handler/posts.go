package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/moderation-service/internal/dto"
	"github.com/BloggingApp/moderation-service/internal/model"
	"github.com/BloggingApp/moderation-service/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) postsCreate(c *gin.Context) {
	caller := h.getCallerFromRequest(c)

	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdPost, err := h.services.Post.Submit(c.Request.Context(), *caller, input)
	if err != nil {
		c.JSON(serviceErrStatus(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, *createdPost)
}

func (h *Handler) postsGet(c *gin.Context) {
	caller := h.getCallerFromRequest(c)

	query := service.PostQuery{
		Author: c.Query("author"),
		Query:  c.Query("q"),
	}

	if statusString := c.Query("status"); statusString != "" {
		status := model.Status(strings.ToUpper(statusString))
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, "invalid status"))
			return
		}
		query.Status = status
	}

	var err0, err1 error
	if limitString := c.Query("limit"); limitString != "" {
		query.Limit, err0 = strconv.Atoi(limitString)
	}
	if offsetString := c.Query("offset"); offsetString != "" {
		query.Offset, err1 = strconv.Atoi(offsetString)
	}
	if err0 != nil || err1 != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errLimitAndOffsetMustBeInt.Error()))
		return
	}

	posts, err := h.services.Post.Find(c.Request.Context(), caller, query)
	if err != nil {
		c.JSON(serviceErrStatus(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetMy(c *gin.Context) {
	caller := h.getCallerFromRequest(c)

	var err0, err1 error
	limit, offset := 0, 0
	if limitString := c.Query("limit"); limitString != "" {
		limit, err0 = strconv.Atoi(limitString)
	}
	if offsetString := c.Query("offset"); offsetString != "" {
		offset, err1 = strconv.Atoi(offsetString)
	}
	if err0 != nil || err1 != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errLimitAndOffsetMustBeInt.Error()))
		return
	}

	posts, err := h.services.Post.FindMy(c.Request.Context(), *caller, limit, offset)
	if err != nil {
		c.JSON(serviceErrStatus(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetByID(c *gin.Context) {
	caller := h.getCallerFromRequest(c)

	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), caller, postID)
	if err != nil {
		c.JSON(serviceErrStatus(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, *post)
}

func (h *Handler) postsDisplayBuckets(c *gin.Context) {
	c.JSON(http.StatusOK, model.DisplayBuckets())
}

func (h *Handler) postsEdit(c *gin.Context) {
	caller := h.getCallerFromRequest(c)

	var input dto.EditPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	post, err := h.services.Post.Edit(c.Request.Context(), *caller, input)
	if err != nil {
		c.JSON(serviceErrStatus(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, *post)
}

func (h *Handler) modApprove(c *gin.Context) {
	h.moderate(c, h.services.Post.Approve)
}

func (h *Handler) modReject(c *gin.Context) {
	h.moderate(c, h.services.Post.Reject)
}

func (h *Handler) modPutUnderReview(c *gin.Context) {
	h.moderate(c, h.services.Post.PutUnderReview)
}

func (h *Handler) moderate(c *gin.Context, transition func(ctx context.Context, caller model.Caller, id int64) (*model.Post, error)) {
	caller := h.getCallerFromRequest(c)

	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	post, err := transition(c.Request.Context(), *caller, postID)
	if err != nil {
		c.JSON(serviceErrStatus(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, *post)
}

func parsePostID(c *gin.Context) (int64, error) {
	postIDString := strings.TrimSpace(c.Param("postID"))
	postID, err := strconv.Atoi(postIDString)
	if err != nil {
		return 0, err
	}
	return int64(postID), nil
}

func (h *Handler) modGetTransitions(c *gin.Context) {
	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	entries, err := h.services.Post.FindTransitions(c.Request.Context(), postID)
	if err != nil {
		c.JSON(serviceErrStatus(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, entries)
}
