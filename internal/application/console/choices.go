package console

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookingops/console/internal/domain/catalog"
	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/partner"
	"github.com/bookingops/console/internal/domain/table"
)

// Layouts accepted by date and date-time fields
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"
)

// DateLayouts are tried in order when reading date fields
var DateLayouts = []string{time.RFC3339, DateTimeLayout, DateLayout}

// EnumChoices builds dropdown choices from string enum values
func EnumChoices[E ~string](values []E) []form.Choice {
	out := make([]form.Choice, 0, len(values))
	for _, v := range values {
		out = append(out, form.Choice{ID: string(v), Name: table.Humanize(string(v))})
	}
	return out
}

// CategoryChoices lists categories as dropdown choices
func CategoryChoices(rows []catalog.Category) []form.Choice {
	out := make([]form.Choice, 0, len(rows))
	for _, c := range rows {
		out = append(out, form.Choice{ID: c.ID, Name: c.Name})
	}
	return out
}

// ItemChoices lists the items of a category; an empty category keeps all
func ItemChoices(rows []catalog.Item, categoryID string) []form.Choice {
	out := make([]form.Choice, 0, len(rows))
	for _, i := range rows {
		if i.InCategory(categoryID) {
			out = append(out, form.Choice{ID: i.ID, Name: i.Name})
		}
	}
	return out
}

// OptionChoices lists the options of a category; an empty category keeps all
func OptionChoices(rows []catalog.Option, categoryID string) []form.Choice {
	out := make([]form.Choice, 0, len(rows))
	for _, o := range rows {
		if o.InCategory(categoryID) {
			out = append(out, form.Choice{ID: o.ID, Name: o.Name})
		}
	}
	return out
}

// WorkerChoices lists the workers of a category; an empty category keeps all
func WorkerChoices(rows []partner.Worker, categoryID string) []form.Choice {
	out := make([]form.Choice, 0, len(rows))
	for _, w := range rows {
		if categoryID == "" || w.CategoryID == categoryID {
			out = append(out, form.Choice{ID: w.ID, Name: w.DisplayName()})
		}
	}
	return out
}

// DecimalValue formats an amount for a number field
func DecimalValue(d decimal.Decimal) form.Value {
	return form.Text(d.String())
}

// DateValue formats an optional date for a date field
func DateValue(t *time.Time) form.Value {
	if t == nil {
		return form.Value{}
	}
	return form.Text(t.Format(DateLayout))
}

// DateTimeValue formats an optional time for a date-time field
func DateTimeValue(t *time.Time) form.Value {
	if t == nil {
		return form.Value{}
	}
	return form.Text(t.Format(DateTimeLayout))
}

// OptionalList returns a one-element list for s, or an empty value when s is empty
func OptionalList(s string) form.Value {
	if s == "" {
		return form.Value{}
	}
	return form.List(s)
}

// FormatTime renders an optional timestamp in table cells
func FormatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
