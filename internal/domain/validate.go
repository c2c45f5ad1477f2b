package domain

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Field limits mirror the column sizes in db/migrations.
const (
	MaxPlatformNameLen        = 30
	MaxPlatformDescriptionLen = 150
	MaxPlatformWebsiteLen     = 100
	MaxTitleLen               = 50
	MaxDescriptionLen         = 200

	MinRating = 1
	MaxRating = 5
)

type fieldErrors []FieldError

func (f *fieldErrors) add(field, format string, args ...any) {
	*f = append(*f, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (f *fieldErrors) required(field, value string, max int) {
	if strings.TrimSpace(value) == "" {
		f.add(field, "This field may not be blank.")
		return
	}
	f.maxLen(field, value, max)
}

func (f *fieldErrors) maxLen(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		f.add(field, "Ensure this field has no more than %d characters.", max)
	}
}

func (f fieldErrors) result() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Errors: f}
}

// ValidatePlatform checks a platform before it is written.
func ValidatePlatform(p Platform) error {
	var errs fieldErrors
	errs.required("name", p.Name, MaxPlatformNameLen)
	errs.required("description", p.Description, MaxPlatformDescriptionLen)
	errs.required("website", p.Website, MaxPlatformWebsiteLen)
	if strings.TrimSpace(p.Website) != "" && !isHTTPURL(p.Website) {
		errs.add("website", "Enter a valid URL.")
	}
	return errs.result()
}

// ValidateWatchlistItem checks the client-editable fields of an item.
func ValidateWatchlistItem(item WatchlistItem) error {
	var errs fieldErrors
	errs.required("title", item.Title, MaxTitleLen)
	errs.maxLen("description", item.Description, MaxDescriptionLen)
	if item.StoragePlatform != nil && *item.StoragePlatform <= 0 {
		errs.add("storage_platform", "Invalid pk %d - object does not exist.", *item.StoragePlatform)
	}
	return errs.result()
}

// ValidateReview checks the client-editable fields of a review.
func ValidateReview(r Review) error {
	var errs fieldErrors
	if r.Rating < MinRating || r.Rating > MaxRating {
		errs.add("rating", "Ensure this value is between %d and %d.", MinRating, MaxRating)
	}
	errs.maxLen("description", r.Description, MaxDescriptionLen)
	return errs.result()
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
