package seedfile

import (
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// EntryError reports a seed entry rejected by validation.
type EntryError struct {
	Index int
	Title string
	Err   error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("entry %d (%q): %v", e.Index, e.Title, e.Err)
}

func (e EntryError) Unwrap() error { return e.Err }

// MapBookmarks runs every entry through the creation validator.
// Invalid entries are skipped and reported; an error is returned only when
// the file has entries and none of them is valid.
func MapBookmarks(cfg Config) ([]domain.NewBookmark, []EntryError, error) {
	bookmarks := make([]domain.NewBookmark, 0, len(cfg.Bookmarks))
	var rejected []EntryError

	for i, entry := range cfg.Bookmarks {
		req, err := toCreateRequest(entry)
		if err != nil {
			rejected = append(rejected, EntryError{Index: i, Title: entry.Title, Err: err})
			continue
		}

		nb, err := req.Validate()
		if err != nil {
			rejected = append(rejected, EntryError{Index: i, Title: entry.Title, Err: err})
			continue
		}
		bookmarks = append(bookmarks, nb)
	}

	if len(cfg.Bookmarks) > 0 && len(bookmarks) == 0 {
		return nil, rejected, fmt.Errorf("no valid bookmarks found in seed file")
	}

	return bookmarks, rejected, nil
}

func toCreateRequest(e Entry) (domain.CreateRequest, error) {
	rating, err := json.Marshal(e.Rating)
	if err != nil {
		return domain.CreateRequest{}, fmt.Errorf("invalid rating: %w", err)
	}

	title, url, description := e.Title, e.URL, e.Description
	return domain.CreateRequest{
		Title:       &title,
		URL:         &url,
		Description: &description,
		Rating:      rating,
	}, nil
}
