package model

import "strings"

// NormalizeTags parses the comma-delimited tag string accepted at the HTTP
// boundary into a trimmed, de-duplicated list. Order of first appearance is
// preserved for display; duplicates and empty entries collapse.
func NormalizeTags(raw string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// JoinTags renders a tag list back to the comma-delimited boundary form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}
