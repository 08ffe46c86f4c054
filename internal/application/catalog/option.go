package catalog

import (
	"context"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/catalog"
	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/table"
)

// OptionColumns are the list columns of the option screen
func OptionColumns() []table.Column[catalog.Option] {
	return []table.Column[catalog.Option]{
		{Key: "name", MinWidth: 160, Render: func(o catalog.Option) table.Cell {
			return table.Link(o.Name, detailHref(EntityOption, o.ID))
		}},
		{Key: "category", Render: func(o catalog.Option) table.Cell {
			if o.Category == nil {
				return table.Text(o.CategoryID)
			}
			return table.Text(o.Category.Name)
		}},
		{Key: "price", Align: table.AlignRight, Sortable: true, Render: func(o catalog.Option) table.Cell {
			return table.Text(o.Price.StringFixed(2))
		}},
		{Key: "estTime", Label: "Est. Time (min)", Align: table.AlignRight, Render: func(o catalog.Option) table.Cell {
			return table.Text(itoa(o.EstTime))
		}},
		{Key: "isActive", Label: "Active", Align: table.AlignCenter, Render: func(o catalog.Option) table.Cell {
			return table.Text(yesNo(o.IsActive))
		}},
	}
}

type optionForms struct {
	lookups *console.Lookups
}

func (b optionForms) build(ctx context.Context, rec *catalog.Option) (*form.Form, error) {
	categories, err := b.lookups.Categories(ctx)
	if err != nil {
		return nil, err
	}
	o := catalog.Option{MinQuantity: 1, MaxQuantity: 1, IsActive: true}
	if rec != nil {
		o = *rec
	}
	return form.New(
		form.Spec{Label: "Name", Alias: "name", Type: form.TypeText, Value: form.Text(o.Name), Required: true},
		form.Spec{Label: "Category", Alias: "categoryId", Type: form.TypeDropdown, Value: form.Text(o.CategoryID), Required: true, Choices: console.CategoryChoices(categories)},
		form.Spec{Label: "Price", Alias: "price", Type: form.TypeNumber, Value: console.DecimalValue(o.Price), Required: true},
		form.Spec{Label: "Min Quantity", Alias: "minQuantity", Type: form.TypeNumber, Value: form.Int(o.MinQuantity)},
		form.Spec{Label: "Max Quantity", Alias: "maxQuantity", Type: form.TypeNumber, Value: form.Int(o.MaxQuantity)},
		form.Spec{Label: "Est. Time (min)", Alias: "estTime", Type: form.TypeNumber, Value: form.Int(o.EstTime)},
		form.Spec{Label: "Images", Alias: "imageUrls", Type: form.TypeImage, MultiSelect: true, Value: form.List(o.ImageURLs...)},
		form.Spec{Label: "Active", Alias: "isActive", Type: form.TypeCheckbox, Value: form.Bool(o.IsActive)},
	), nil
}

func optionInput(_ context.Context, f *form.Form) (catalog.OptionInput, error) {
	r := console.Read(f.Scope())
	return catalog.OptionInput{
		Name:        r.Text("name"),
		CategoryID:  r.Text("categoryId"),
		Price:       r.Decimal("price"),
		MinQuantity: r.Int("minQuantity"),
		MaxQuantity: r.Int("maxQuantity"),
		EstTime:     r.Int("estTime"),
		ImageURLs:   r.List("imageUrls"),
		IsActive:    r.Optional("isActive"),
	}, r.Err()
}

// NewOptionScreen creates the option screen
func NewOptionScreen(repo catalog.OptionRepository, lookups *console.Lookups, pageSize int) *console.Resource[catalog.Option] {
	b := optionForms{lookups: lookups}
	return console.NewResource[catalog.Option](EntityOption, repo, OptionColumns(), b.build,
		console.WithPageSize[catalog.Option](pageSize),
		console.WithCreate[catalog.Option](console.CreateWith[catalog.OptionInput](repo, optionInput)),
		console.WithUpdate[catalog.Option](console.UpdateWith[catalog.OptionInput](repo, optionInput)),
		console.WithDelete[catalog.Option](repo),
	)
}
