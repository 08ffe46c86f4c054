package catalog

import (
	"time"

	"github.com/bookingops/console/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Option is an add-on that can be attached to items of the same category
type Option struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	CategoryID  string          `json:"categoryId"`
	Category    *shared.Ref     `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	MinQuantity int             `json:"minQuantity"`
	MaxQuantity int             `json:"maxQuantity"`
	EstTime     int             `json:"estTime"`
	ImageURLs   []string        `json:"imageUrls"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

// OptionInput is the create/update payload for an option
type OptionInput struct {
	Name        string          `json:"name,omitempty"`
	CategoryID  string          `json:"categoryId,omitempty"`
	Price       decimal.Decimal `json:"price"`
	MinQuantity int             `json:"minQuantity"`
	MaxQuantity int             `json:"maxQuantity"`
	EstTime     int             `json:"estTime"`
	ImageURLs   []string        `json:"imageUrls,omitempty"`
	IsActive    *bool           `json:"isActive,omitempty"`
}

// OptionRepository is the remote option collection
type OptionRepository interface {
	shared.Repository[Option, OptionInput]
}

// InCategory reports whether the record belongs to the category
func (o Option) InCategory(categoryID string) bool {
	return categoryID == "" || o.CategoryID == categoryID
}

// InCategory reports whether the record belongs to the category
func (i Item) InCategory(categoryID string) bool {
	return categoryID == "" || i.CategoryID == categoryID
}
