package models

import (
	"fmt"
	"time"
)

// Notification is a persisted exam announcement. A given (text, url) pair is
// stored at most once; the scrape pipeline may rewrite the url of an existing
// row when the source page changes the link behind an announcement.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"not null;uniqueIndex:idx_notifications_text_url" json:"text"`
	URL       string    `gorm:"not null;uniqueIndex:idx_notifications_text_url" json:"url"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SortOrder selects the ordering of notification listings.
type SortOrder int

const (
	SortNewest SortOrder = iota // created_at descending, the default
	SortOldest                  // created_at ascending
	SortTitle                   // text ascending
)

// ParseSortOrder maps the HTTP sort token to a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "", "newest":
		return SortNewest, nil
	case "oldest":
		return SortOldest, nil
	case "title":
		return SortTitle, nil
	default:
		return SortNewest, fmt.Errorf("unknown sort order %q", s)
	}
}

func (s SortOrder) String() string {
	switch s {
	case SortOldest:
		return "oldest"
	case SortTitle:
		return "title"
	default:
		return "newest"
	}
}
