package catalog

import (
	"context"
	"slices"
	"strings"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/catalog"
	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/table"
)

// ItemColumns are the list columns of the item screen
func ItemColumns() []table.Column[catalog.Item] {
	return []table.Column[catalog.Item]{
		{Key: "name", MinWidth: 160, Render: func(i catalog.Item) table.Cell {
			return table.Link(i.Name, detailHref(EntityItem, i.ID))
		}},
		{Key: "category", Render: func(i catalog.Item) table.Cell {
			if i.Category == nil {
				return table.Text(i.CategoryID)
			}
			return table.Text(i.Category.Name)
		}},
		{Key: "price", Align: table.AlignRight, Sortable: true, Render: func(i catalog.Item) table.Cell {
			return table.Text(i.Price.StringFixed(2))
		}},
		{Key: "quantity", Align: table.AlignCenter, Render: func(i catalog.Item) table.Cell {
			return table.Text(itoa(i.MinQuantity) + " - " + itoa(i.MaxQuantity))
		}},
		{Key: "estTime", Label: "Est. Time (min)", Align: table.AlignRight, Render: func(i catalog.Item) table.Cell {
			return table.Text(itoa(i.EstTime))
		}},
	}
}

type itemForms struct {
	lookups *console.Lookups
}

func (b itemForms) build(ctx context.Context, rec *catalog.Item) (*form.Form, error) {
	categories, err := b.lookups.Categories(ctx)
	if err != nil {
		return nil, err
	}
	options, err := b.lookups.Options(ctx)
	if err != nil {
		return nil, err
	}
	i := catalog.Item{MinQuantity: 1, MaxQuantity: 1}
	if rec != nil {
		i = *rec
	}
	return form.New(
		form.Spec{Label: "Name", Alias: "name", Type: form.TypeText, Value: form.Text(i.Name), Required: true},
		form.Spec{Label: "Sub Name", Alias: "subName", Type: form.TypeText, Value: form.Text(i.SubName)},
		form.Spec{Label: "Tags", Alias: "tags", Type: form.TypeText, Value: form.Text(strings.Join(i.Tags, ", "))},
		form.Spec{Label: "Category", Alias: "categoryId", Type: form.TypeDropdown, Value: form.Text(i.CategoryID), Required: true, Choices: console.CategoryChoices(categories)},
		form.Spec{Label: "Options", Alias: "optionIds", Type: form.TypeDropdown, MultiSelect: true, Value: form.List(i.OptionIDs...), Choices: console.OptionChoices(options, i.CategoryID)},
		form.Spec{Label: "Price", Alias: "price", Type: form.TypeNumber, Value: console.DecimalValue(i.Price), Required: true},
		form.Spec{Label: "Min Quantity", Alias: "minQuantity", Type: form.TypeNumber, Value: form.Int(i.MinQuantity)},
		form.Spec{Label: "Max Quantity", Alias: "maxQuantity", Type: form.TypeNumber, Value: form.Int(i.MaxQuantity)},
		form.Spec{Label: "Est. Time (min)", Alias: "estTime", Type: form.TypeNumber, Value: form.Int(i.EstTime)},
		form.Spec{Label: "Content", Alias: "content", Type: form.TypeText, Value: form.Text(i.Content)},
		form.Spec{Label: "Images", Alias: "imageUrls", Type: form.TypeImage, MultiSelect: true, Value: form.List(i.ImageURLs...)},
	), nil
}

// rules narrows the option choices to the selected category and drops
// selected options that no longer belong to it
func (b itemForms) rules(ctx context.Context, f *form.Form, _ form.Ref) error {
	field := f.Scope().Field("optionIds")
	if field == nil {
		return nil
	}
	options, err := b.lookups.Options(ctx)
	if err != nil {
		return err
	}
	field.Choices = console.OptionChoices(options, f.Scope().Text("categoryId"))
	kept := field.Value.List[:0:0]
	for _, id := range field.Value.List {
		if slices.ContainsFunc(field.Choices, func(c form.Choice) bool { return c.ID == id }) {
			kept = append(kept, id)
		}
	}
	field.Value.List = kept
	return nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func itemInput(_ context.Context, f *form.Form) (catalog.ItemInput, error) {
	r := console.Read(f.Scope())
	return catalog.ItemInput{
		Name:        r.Text("name"),
		SubName:     r.Text("subName"),
		Tags:        splitTags(r.Text("tags")),
		CategoryID:  r.Text("categoryId"),
		OptionIDs:   r.List("optionIds"),
		Price:       r.Decimal("price"),
		MinQuantity: r.Int("minQuantity"),
		MaxQuantity: r.Int("maxQuantity"),
		EstTime:     r.Int("estTime"),
		Content:     r.Text("content"),
		ImageURLs:   r.List("imageUrls"),
	}, r.Err()
}

// NewItemScreen creates the item screen
func NewItemScreen(repo catalog.ItemRepository, lookups *console.Lookups, pageSize int) *console.Resource[catalog.Item] {
	b := itemForms{lookups: lookups}
	return console.NewResource[catalog.Item](EntityItem, repo, ItemColumns(), b.build,
		console.WithPageSize[catalog.Item](pageSize),
		console.WithRules[catalog.Item](b.rules),
		console.WithCreate[catalog.Item](console.CreateWith[catalog.ItemInput](repo, itemInput)),
		console.WithUpdate[catalog.Item](console.UpdateWith[catalog.ItemInput](repo, itemInput)),
		console.WithDelete[catalog.Item](repo),
	)
}
