package catalog

import (
	"time"

	"github.com/bookingops/console/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Item is a bookable service line
type Item struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	SubName     string          `json:"subName"`
	Tags        []string        `json:"tags"`
	CategoryID  string          `json:"categoryId"`
	Category    *shared.Ref     `json:"category,omitempty"`
	OptionIDs   []string        `json:"optionIds"`
	Options     []shared.Ref    `json:"options,omitempty"`
	Price       decimal.Decimal `json:"price"`
	MinQuantity int             `json:"minQuantity"`
	MaxQuantity int             `json:"maxQuantity"`
	EstTime     int             `json:"estTime"`
	Content     string          `json:"content"`
	ImageURLs   []string        `json:"imageUrls"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

// ItemInput is the create/update payload for an item
type ItemInput struct {
	Name        string          `json:"name,omitempty"`
	SubName     string          `json:"subName,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	CategoryID  string          `json:"categoryId,omitempty"`
	OptionIDs   []string        `json:"optionIds,omitempty"`
	Price       decimal.Decimal `json:"price"`
	MinQuantity int             `json:"minQuantity"`
	MaxQuantity int             `json:"maxQuantity"`
	EstTime     int             `json:"estTime"`
	Content     string          `json:"content,omitempty"`
	ImageURLs   []string        `json:"imageUrls,omitempty"`
}

// ItemRepository is the remote item collection
type ItemRepository interface {
	shared.Repository[Item, ItemInput]
}
