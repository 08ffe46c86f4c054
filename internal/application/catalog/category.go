// Package catalog builds the category, item and option screens.
package catalog

import (
	"context"
	"strconv"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/catalog"
	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/table"
)

// Entity names used in routes
const (
	EntityCategory = "category"
	EntityItem     = "item"
	EntityOption   = "option"
)

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func detailHref(entity, id string) string {
	return "/" + entity + "/" + id
}

// CategoryColumns are the list columns of the category screen
func CategoryColumns() []table.Column[catalog.Category] {
	return []table.Column[catalog.Category]{
		{Key: "name", MinWidth: 160, Render: func(c catalog.Category) table.Cell {
			return table.Link(c.Name, detailHref(EntityCategory, c.ID))
		}},
		{Key: "code", MinWidth: 80, Render: func(c catalog.Category) table.Cell { return table.Text(c.Code) }},
		{Key: "description", MinWidth: 200, Render: func(c catalog.Category) table.Cell { return table.Text(c.Description) }},
		{Key: "isActive", Label: "Active", Align: table.AlignCenter, Render: func(c catalog.Category) table.Cell {
			return table.Text(yesNo(c.IsActive))
		}},
		{Key: "createdAt", Sortable: true, Render: func(c catalog.Category) table.Cell {
			return table.Text(console.FormatTime(c.CreatedAt))
		}},
	}
}

type categoryForms struct {
	lookups *console.Lookups
}

func (b categoryForms) build(ctx context.Context, rec *catalog.Category) (*form.Form, error) {
	categories, err := b.lookups.Categories(ctx)
	if err != nil {
		return nil, err
	}
	c := catalog.Category{IsActive: true}
	if rec != nil {
		c = *rec
	}
	parents := make([]catalog.Category, 0, len(categories))
	for _, p := range categories {
		if p.ID != c.ID {
			parents = append(parents, p)
		}
	}
	return form.New(
		form.Spec{Label: "Code", Alias: "code", Type: form.TypeText, Value: form.Text(c.Code), Required: true},
		form.Spec{Label: "Name", Alias: "name", Type: form.TypeText, Value: form.Text(c.Name), Required: true},
		form.Spec{Label: "Description", Alias: "description", Type: form.TypeText, Value: form.Text(c.Description)},
		form.Spec{Label: "Parent", Alias: "parentId", Type: form.TypeDropdown, Value: form.Text(c.ParentID), Choices: console.CategoryChoices(parents)},
		form.Spec{Label: "Active", Alias: "isActive", Type: form.TypeCheckbox, Value: form.Bool(c.IsActive)},
		form.Spec{Label: "Images", Alias: "imageUrls", Type: form.TypeImage, MultiSelect: true, Value: form.List(c.ImageURLs...)},
	), nil
}

func categoryInput(_ context.Context, f *form.Form) (catalog.CategoryInput, error) {
	r := console.Read(f.Scope())
	return catalog.CategoryInput{
		Code:        r.Text("code"),
		Name:        r.Text("name"),
		Description: r.Text("description"),
		ParentID:    r.Text("parentId"),
		IsActive:    r.Optional("isActive"),
		ImageURLs:   r.List("imageUrls"),
	}, r.Err()
}

// NewCategoryScreen creates the category screen
func NewCategoryScreen(repo catalog.CategoryRepository, lookups *console.Lookups, pageSize int) *console.Resource[catalog.Category] {
	b := categoryForms{lookups: lookups}
	return console.NewResource[catalog.Category](EntityCategory, repo, CategoryColumns(), b.build,
		console.WithPageSize[catalog.Category](pageSize),
		console.WithCreate[catalog.Category](console.CreateWith[catalog.CategoryInput](repo, categoryInput)),
		console.WithUpdate[catalog.Category](console.UpdateWith[catalog.CategoryInput](repo, categoryInput)),
		console.WithDelete[catalog.Category](repo),
	)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
