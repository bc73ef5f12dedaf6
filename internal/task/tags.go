package task

import "strings"

// ParseTags splits comma separated input into trimmed, non-empty tags.
// Order and duplicates are kept: "work, , urgent,work" yields
// [work urgent work].
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// JoinTags renders tags back into the form accepted by ParseTags.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
