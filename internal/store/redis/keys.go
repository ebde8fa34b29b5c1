package redis

const (
	// KeyPrefixBookmark is the prefix for bookmark hash keys
	KeyPrefixBookmark = "bookmarks:bookmark:"
	// KeyBookmarkIndex is the sorted set of bookmark IDs scored by creation time
	KeyBookmarkIndex = "bookmarks:index"
)

// BookmarkKey returns the Redis key for a bookmark
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}

// IndexKey returns the Redis key of the creation-ordered ID index
func IndexKey() string {
	return KeyBookmarkIndex
}
