package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// CreateRequest is the decoded body of POST /bookmarks.
// Every field is optional at decode time; Validate decides what is acceptable.
// Rating is kept raw because clients send it as a number or a numeric string.
type CreateRequest struct {
	Title       *string         `json:"title"`
	URL         *string         `json:"url"`
	Description *string         `json:"description"`
	Rating      json.RawMessage `json:"rating"`
}

// Validate checks the payload and returns the fields to insert.
//
// Checks run in a fixed order and the first failure wins:
// title, url and rating presence, then rating range, then url shape.
func (r CreateRequest) Validate() (NewBookmark, error) {
	if isBlank(r.Title) {
		return NewBookmark{}, requiredError(FieldTitle)
	}
	if isBlank(r.URL) {
		return NewBookmark{}, requiredError(FieldURL)
	}

	rating, present, ok := coerceRating(r.Rating)
	if !present {
		return NewBookmark{}, requiredError(FieldRating)
	}
	if !ok || rating != math.Trunc(rating) || rating < MinRating || rating > MaxRating {
		return NewBookmark{}, ratingRangeError()
	}

	if !isWebURL(*r.URL) {
		return NewBookmark{}, invalidURLError()
	}

	nb := NewBookmark{
		Title:  *r.Title,
		URL:    *r.URL,
		Rating: int(rating),
	}
	if r.Description != nil {
		nb.Description = *r.Description
	}
	return nb, nil
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

// coerceRating turns the raw JSON rating into a number.
// present is false for a missing value, null, false, the empty string or a
// bare numeric zero. The string "0" is a value like any other.
// ok is false when the value is present but not numeric.
func coerceRating(raw json.RawMessage) (value float64, present bool, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte("false")) {
		return 0, false, false
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, true, false
		}
		if s == "" {
			return 0, false, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, true, false
		}
		return f, true, true
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return 0, true, false
		}
		if f == 0 {
			return 0, false, false
		}
		return f, true, true
	default:
		// true, objects and arrays
		return 0, true, false
	}
}

func isWebURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
