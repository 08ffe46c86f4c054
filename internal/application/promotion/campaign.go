// Package promotion builds the campaign screen and its target rules.
package promotion

import (
	"context"
	"slices"
	"strconv"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/promotion"
	"github.com/bookingops/console/internal/domain/table"
)

// EntityCampaign is the entity name used in routes
const EntityCampaign = "campaign"

// CampaignColumns are the list columns of the campaign screen
func CampaignColumns() []table.Column[promotion.Campaign] {
	return []table.Column[promotion.Campaign]{
		{Key: "name", MinWidth: 160, Render: func(c promotion.Campaign) table.Cell {
			return table.Link(c.Name, "/"+EntityCampaign+"/"+c.ID)
		}},
		{Key: "type", Render: func(c promotion.Campaign) table.Cell { return table.Text(string(c.Type)) }},
		{Key: "code", Render: func(c promotion.Campaign) table.Cell { return table.Text(c.Code) }},
		{Key: "status", Align: table.AlignCenter, Render: func(c promotion.Campaign) table.Cell {
			return table.Text(string(c.Status))
		}},
		{Key: "startDate", Sortable: true, Render: func(c promotion.Campaign) table.Cell {
			return table.Text(console.FormatTime(c.StartDate))
		}},
		{Key: "endDate", Render: func(c promotion.Campaign) table.Cell {
			return table.Text(console.FormatTime(c.EndDate))
		}},
		{Key: "usedCount", Label: "Used", Align: table.AlignRight, Render: func(c promotion.Campaign) table.Cell {
			return table.Text(strconv.Itoa(c.UsedCount))
		}},
	}
}

var (
	conditions     = []promotion.TargetCondition{promotion.ConditionOr, promotion.ConditionAny}
	targetTypes    = []promotion.TargetType{promotion.TargetTotal, promotion.TargetItem, promotion.TargetOption}
	promotionTypes = []promotion.PromotionType{promotion.PromotionDiscount, promotion.PromotionPercent}
)

func targetRow(t promotion.PromotionTarget) []form.Spec {
	return []form.Spec{
		{Label: "Condition", Alias: "condition", Type: form.TypeDropdown, Value: form.Text(string(t.Condition)), Required: true, Choices: console.EnumChoices(conditions)},
		{Label: "Type", Alias: "type", Type: form.TypeDropdown, Value: form.Text(string(t.Type)), Required: true, Choices: console.EnumChoices(targetTypes)},
		{Label: "Targets", Alias: "ids", Type: form.TypeDropdown, MultiSelect: true, Value: form.List(t.IDs...), Hidden: true},
		{Label: "Promotion Type", Alias: "promotionType", Type: form.TypeDropdown, Value: form.Text(string(t.PromotionType)), Required: true, Choices: console.EnumChoices(promotionTypes)},
		{Label: "Value", Alias: "value", Type: form.TypeNumber, Value: console.DecimalValue(t.Value), Required: true},
	}
}

type campaignForms struct {
	lookups *console.Lookups
}

func (b campaignForms) build(ctx context.Context, rec *promotion.Campaign) (*form.Form, error) {
	var c promotion.Campaign
	if rec != nil {
		c = *rec
	}
	rows := make([][]form.Spec, 0, len(c.Targets))
	for _, t := range c.Targets {
		rows = append(rows, targetRow(t))
	}
	// type, code, limit and dates are fixed once the campaign exists
	fixed := rec != nil
	f := form.New(
		form.Spec{Label: "Name", Alias: "name", Type: form.TypeText, Value: form.Text(c.Name), Required: true},
		form.Spec{Label: "Type", Alias: "type", Type: form.TypeDropdown, Value: form.Text(string(c.Type)), Required: true, Disabled: fixed, Choices: console.EnumChoices(promotion.CampaignTypes)},
		form.Spec{Label: "Code", Alias: "code", Type: form.TypeText, Value: form.Text(c.Code), Hidden: true, Disabled: fixed},
		form.Spec{Label: "Redemption Limit", Alias: "redemptionAmountLimit", Type: form.TypeNumber, Value: form.Int(c.RedemptionAmountLimit), Disabled: fixed},
		form.Spec{Label: "Start Date", Alias: "startDate", Type: form.TypeDate, Value: console.DateValue(c.StartDate), Required: true, Disabled: fixed},
		form.Spec{Label: "End Date", Alias: "endDate", Type: form.TypeDate, Value: console.DateValue(c.EndDate), Required: true, Disabled: fixed},
		form.Spec{Label: "Description", Alias: "description", Type: form.TypeText, Value: form.Text(c.Description)},
		form.Spec{Label: "Status", Alias: "status", Type: form.TypeDropdown, Value: form.Text(string(c.Status)), Disabled: true, Hidden: rec == nil, Choices: console.EnumChoices(promotion.CampaignStatuses)},
		form.Spec{Label: "Targets", Alias: "targets", Type: form.TypeSubForm, Required: true, Rows: rows, Template: targetRow(promotion.PromotionTarget{})},
	)
	if err := b.derive(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (b campaignForms) rules(ctx context.Context, f *form.Form, _ form.Ref) error {
	return b.derive(ctx, f)
}

// derive recomputes every dependent field from the campaign type, the code
// and each target's type. It is idempotent, so new rows inherit the rules.
func (b campaignForms) derive(ctx context.Context, f *form.Form) error {
	s := f.Scope()
	ctype := promotion.CampaignType(s.Text("type"))

	code := s.Field("code")
	code.Hidden = ctype == ""
	code.Required = ctype != ""
	if ctype == promotion.CampaignCategory {
		categories, err := b.lookups.Categories(ctx)
		if err != nil {
			return err
		}
		code.Type = form.TypeDropdown
		code.Choices = console.CategoryChoices(categories)
		if !hasChoice(code.Choices, code.Value.Text) {
			code.Value = form.Value{}
		}
	} else {
		if code.Type == form.TypeDropdown {
			// a category id is not a redeemable code
			code.Value = form.Value{}
		}
		code.Type = form.TypeText
		code.Choices = nil
	}

	categoryID := ""
	if ctype == promotion.CampaignCategory {
		categoryID = code.Value.Text
	}

	for _, row := range s.Rows("targets") {
		typ := row.Field("type")
		ids := row.Field("ids")
		if ctype == promotion.CampaignBill {
			typ.Hidden, typ.Required, typ.Value = true, false, form.Value{}
			ids.Hidden, ids.Required, ids.Value = true, false, form.Value{}
			continue
		}
		typ.Hidden, typ.Required = false, true

		var choices []form.Choice
		switch promotion.TargetType(typ.Value.Text) {
		case promotion.TargetItem:
			items, err := b.lookups.Items(ctx)
			if err != nil {
				return err
			}
			choices = console.ItemChoices(items, categoryID)
		case promotion.TargetOption:
			options, err := b.lookups.Options(ctx)
			if err != nil {
				return err
			}
			choices = console.OptionChoices(options, categoryID)
		default:
			ids.Hidden, ids.Required, ids.Choices = true, false, nil
			continue
		}
		ids.Hidden, ids.Required, ids.Choices = false, true, choices
		kept := make([]string, 0, len(ids.Value.List))
		for _, id := range ids.Value.List {
			if hasChoice(choices, id) {
				kept = append(kept, id)
			}
		}
		ids.Value = form.List(kept...)
	}
	return nil
}

func hasChoice(choices []form.Choice, id string) bool {
	return slices.ContainsFunc(choices, func(c form.Choice) bool { return c.ID == id })
}

func campaignInput(_ context.Context, f *form.Form) (promotion.CampaignInput, error) {
	r := console.Read(f.Scope())
	in := promotion.CampaignInput{
		Name:                  r.Text("name"),
		Type:                  promotion.CampaignType(r.Text("type")),
		Code:                  r.Text("code"),
		RedemptionAmountLimit: r.Int("redemptionAmountLimit"),
		StartDate:             r.Time("startDate"),
		EndDate:               r.Time("endDate"),
		Description:           r.Text("description"),
		Targets:               readTargets(r),
	}
	return in, r.Err()
}

func campaignUpdateInput(_ context.Context, f *form.Form) (promotion.CampaignUpdateInput, error) {
	r := console.Read(f.Scope())
	in := promotion.CampaignUpdateInput{
		Name:        r.Text("name"),
		Description: r.Text("description"),
		Targets:     readTargets(r),
	}
	return in, r.Err()
}

func readTargets(r *console.FieldReader) []promotion.PromotionTarget {
	targets := []promotion.PromotionTarget{}
	for _, row := range r.Rows("targets") {
		t := promotion.PromotionTarget{
			Condition:     promotion.TargetCondition(row.Text("condition")),
			PromotionType: promotion.PromotionType(row.Text("promotionType")),
			Value:         row.Decimal("value"),
			IDs:           []string{},
		}
		if typ := row.Field("type"); typ != nil && !typ.Hidden {
			t.Type = promotion.TargetType(typ.Value.Text)
		}
		if ids := row.Field("ids"); ids != nil && !ids.Hidden && len(ids.Value.List) > 0 {
			t.IDs = ids.Value.List
		}
		targets = append(targets, t)
	}
	return targets
}

// NewCampaignScreen creates the campaign screen
func NewCampaignScreen(repo promotion.CampaignRepository, lookups *console.Lookups, pageSize int) *console.Resource[promotion.Campaign] {
	b := campaignForms{lookups: lookups}
	return console.NewResource[promotion.Campaign](EntityCampaign, repo, CampaignColumns(), b.build,
		console.WithPageSize[promotion.Campaign](pageSize),
		console.WithRules[promotion.Campaign](b.rules),
		console.WithCreate[promotion.Campaign](console.CreateWith[promotion.CampaignInput](repo, campaignInput)),
		console.WithUpdate[promotion.Campaign](console.UpdateWith[promotion.CampaignUpdateInput](repo, campaignUpdateInput)),
		console.WithDelete[promotion.Campaign](repo),
	)
}
