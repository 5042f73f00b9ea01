package service

import "errors"

var (
	ErrInternal          = errors.New("internal server error")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotVisible        = errors.New("post is not visible")
	ErrNotCommentable    = errors.New("post is not open for comments")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrPostNotEditable   = errors.New("post can no longer be edited; submit it again")
)
