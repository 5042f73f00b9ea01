package dto

type FollowRequest struct {
	AuthorName string `json:"authorName" binding:"required"`
}
