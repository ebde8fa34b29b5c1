package utils

import (
	"io"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// Close closes c and ignores any error.
// Use for best-effort cleanup on error paths where the original error matters more.
func Close(c io.Closer) {
	_ = c.Close()
}

// MustClose closes c and logs any error under name.
// Returns true when c closed cleanly.
func MustClose(c io.Closer, name string, log logger.Logger) bool {
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("resource", name), logger.Error(err))
		return false
	}
	return true
}
