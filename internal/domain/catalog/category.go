// Package catalog holds the service catalog records: categories, items and options.
package catalog

import (
	"time"

	"github.com/bookingops/console/internal/domain/shared"
)

// Category groups items and options
type Category struct {
	ID            string     `json:"_id"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	ParentID      string     `json:"parentId,omitempty"`
	AncestorIDs   []string   `json:"ancestorIds,omitempty"`
	IsActive      bool       `json:"isActive"`
	ImageURLs     []string   `json:"imageUrls"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
	DeactivatedAt *time.Time `json:"deactivatedAt,omitempty"`
}

// CategoryInput is the create/update payload for a category
type CategoryInput struct {
	Code        string   `json:"code,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	ParentID    string   `json:"parentId,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
	ImageURLs   []string `json:"imageUrls,omitempty"`
}

// CategoryRepository is the remote category collection
type CategoryRepository interface {
	shared.Repository[Category, CategoryInput]
}
