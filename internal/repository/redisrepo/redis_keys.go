package redisrepo

import "fmt"

const (
	POST_KEY           = "post:%d"                  // <postID>
	FOLLOWER_COUNT_KEY = "author:%s-follower-count" // <authorName>
)

func PostKey(postID int64) string {
	return fmt.Sprintf(POST_KEY, postID)
}

func FollowerCountKey(authorName string) string {
	return fmt.Sprintf(FOLLOWER_COUNT_KEY, authorName)
}
