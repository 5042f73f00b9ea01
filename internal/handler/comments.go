package handler

import (
	"net/http"
	"strconv"

	"github.com/BloggingApp/moderation-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsCreate(c *gin.Context) {
	caller := h.getCallerFromRequest(c)

	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	createdComment, err := h.services.Comment.Create(c.Request.Context(), *caller, postID, input)
	if err != nil {
		c.JSON(serviceErrStatus(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, *createdComment)
}

func (h *Handler) commentsGet(c *gin.Context) {
	caller := h.getCallerFromRequest(c)

	postID, err := parsePostID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

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

	comments, err := h.services.Comment.FindPostComments(c.Request.Context(), caller, postID, limit, offset)
	if err != nil {
		c.JSON(serviceErrStatus(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, comments)
}
