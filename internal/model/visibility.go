package model

// Visibility policy lives here and nowhere else: every read, list and
// comment path asks these predicates instead of re-deriving the rule.

func IsListable(s Status) bool {
	return s == StatusApproved
}

func IsCommentable(s Status) bool {
	return s == StatusApproved
}

// IsReadable reports whether the given caller may read a post. Approved
// posts are public; everything else is visible only to the post's author
// or a moderator. A nil caller is an anonymous reader.
func IsReadable(post *Post, caller *Caller) bool {
	if post.Status == StatusApproved {
		return true
	}
	if caller == nil {
		return false
	}
	return caller.Moderator() || caller.ID == post.AuthorID
}
