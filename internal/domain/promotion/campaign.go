// Package promotion holds campaigns and their promotion targets.
package promotion

import (
	"time"

	"github.com/bookingops/console/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CampaignType decides how a campaign is redeemed
type CampaignType string

const (
	// CampaignCode is redeemed with a code entered at booking
	CampaignCode CampaignType = "Code"
	// CampaignCategory applies to every booking in a category; Code holds the category id
	CampaignCategory CampaignType = "Category"
	// CampaignBill applies to the bill total
	CampaignBill CampaignType = "Bill"
)

// CampaignTypes lists the campaign types in display order
var CampaignTypes = []CampaignType{CampaignCode, CampaignCategory, CampaignBill}

// CampaignStatus is the lifecycle state computed by the API
type CampaignStatus string

const (
	CampaignActive   CampaignStatus = "Active"
	CampaignInactive CampaignStatus = "Inactive"
	CampaignExpired  CampaignStatus = "Expired"
)

// CampaignStatuses lists the campaign statuses in display order
var CampaignStatuses = []CampaignStatus{CampaignActive, CampaignInactive, CampaignExpired}

// TargetCondition combines the ids of a target
type TargetCondition string

const (
	ConditionOr  TargetCondition = "Or"
	ConditionAny TargetCondition = "Any"
)

// TargetType is what a promotion target discounts
type TargetType string

const (
	TargetTotal  TargetType = "Total"
	TargetItem   TargetType = "Item"
	TargetOption TargetType = "Option"
)

// PromotionType is how the target value is applied
type PromotionType string

const (
	PromotionDiscount PromotionType = "Discount"
	PromotionPercent  PromotionType = "Percent"
)

// PromotionTarget is one discount rule of a campaign
type PromotionTarget struct {
	Condition     TargetCondition `json:"condition"`
	Type          TargetType      `json:"type,omitempty"`
	IDs           []string        `json:"ids"`
	PromotionType PromotionType   `json:"promotionType"`
	Value         decimal.Decimal `json:"value"`
}

// Campaign is a promotion applied by the pricing engine of the API
type Campaign struct {
	ID                    string            `json:"_id"`
	Name                  string            `json:"name"`
	Type                  CampaignType      `json:"type"`
	Code                  string            `json:"code"`
	RedemptionAmountLimit int               `json:"redemptionAmountLimit"`
	StartDate             *time.Time        `json:"startDate,omitempty"`
	EndDate               *time.Time        `json:"endDate,omitempty"`
	Description           string            `json:"description"`
	Status                CampaignStatus    `json:"status"`
	UsedAmount            decimal.Decimal   `json:"usedAmount"`
	UsedCount             int               `json:"usedCount"`
	IsActive              bool              `json:"isActive"`
	Targets               []PromotionTarget `json:"targets"`
	CreatedAt             *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt             *time.Time        `json:"updatedAt,omitempty"`
}

// CampaignInput is the create payload for a campaign
type CampaignInput struct {
	Name                  string            `json:"name,omitempty"`
	Type                  CampaignType      `json:"type,omitempty"`
	Code                  string            `json:"code,omitempty"`
	RedemptionAmountLimit int               `json:"redemptionAmountLimit"`
	StartDate             *time.Time        `json:"startDate,omitempty"`
	EndDate               *time.Time        `json:"endDate,omitempty"`
	Description           string            `json:"description,omitempty"`
	Targets               []PromotionTarget `json:"targets"`
}

// CampaignUpdateInput is the update payload. Type, code, limit and dates are
// fixed once a campaign exists.
type CampaignUpdateInput struct {
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	Targets     []PromotionTarget `json:"targets"`
}

// CampaignRepository is the remote campaign collection
type CampaignRepository interface {
	shared.Reader[Campaign]
	shared.Creator[CampaignInput]
	shared.Updater[CampaignUpdateInput]
	shared.Deleter
}
