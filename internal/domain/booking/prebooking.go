package booking

import (
	"github.com/shopspring/decimal"
)

// CartOption is an option line of a pricing request
type CartOption struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// CartItem is an item line of a pricing request
type CartItem struct {
	ID       string       `json:"id"`
	Quantity int          `json:"quantity"`
	Options  []CartOption `json:"options"`
}

// Cart is the pre-booking request: what the operator wants the job to contain
type Cart struct {
	Items        []CartItem `json:"items"`
	CampaignCode string     `json:"campaignCode,omitempty"`
	CategoryID   string     `json:"categoryId,omitempty"`
}

// PreBooking is the price quote computed by the API. It is authoritative: the
// console never recomputes any of its amounts.
type PreBooking struct {
	AppliedCampaigns   []AppliedCampaign `json:"appliedCampaigns"`
	TotalPrice         decimal.Decimal   `json:"totalPrice"`
	FinalTotalPrice    decimal.Decimal   `json:"finalTotalPrice"`
	TotalDiscountPrice decimal.Decimal   `json:"totalDiscountPrice"`
	TotalEstTime       int               `json:"totalEstTime"`
	Items              []JobItem         `json:"items"`
}

// ItemsUpdateInput is the payload of updateJobItemsById. It carries a quote
// exactly as the API returned it.
type ItemsUpdateInput struct {
	AppliedCampaigns   []AppliedCampaign `json:"appliedCampaigns"`
	TotalPrice         decimal.Decimal   `json:"totalPrice"`
	FinalTotalPrice    decimal.Decimal   `json:"finalTotalPrice"`
	TotalDiscountPrice decimal.Decimal   `json:"totalDiscountPrice"`
	TotalEstTime       int               `json:"totalEstTime"`
	Items              []JobItem         `json:"items"`
}

// ItemsUpdate converts the quote into the update payload without altering it
func (p *PreBooking) ItemsUpdate() ItemsUpdateInput {
	return ItemsUpdateInput{
		AppliedCampaigns:   p.AppliedCampaigns,
		TotalPrice:         p.TotalPrice,
		FinalTotalPrice:    p.FinalTotalPrice,
		TotalDiscountPrice: p.TotalDiscountPrice,
		TotalEstTime:       p.TotalEstTime,
		Items:              p.Items,
	}
}
