// Package booking builds the job screen and the sectioned job editor with
// its pricing preview.
package booking

import (
	"context"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/booking"
	"github.com/bookingops/console/internal/domain/catalog"
	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/domain/table"
)

// EntityJob is the entity name used in routes
const EntityJob = "job"

// JobColumns are the list columns of the job screen
func JobColumns() []table.Column[booking.Job] {
	return []table.Column[booking.Job]{
		{Key: "csId", Label: "Job", MinWidth: 100, Render: func(j booking.Job) table.Cell {
			label := j.CsID
			if label == "" {
				label = j.ID
			}
			return table.Link(label, "/"+EntityJob+"/"+j.ID)
		}},
		{Key: "customerName", Label: "Customer", MinWidth: 160, Render: func(j booking.Job) table.Cell { return table.Text(j.CustomerName) }},
		{Key: "phoneNumber", Label: "Phone", MinWidth: 120, Render: func(j booking.Job) table.Cell { return table.Text(j.PhoneNumber) }},
		{Key: "status", Align: table.AlignCenter, Render: func(j booking.Job) table.Cell {
			return table.Text(table.Humanize(string(j.Status)))
		}},
		{Key: "worker", Render: func(j booking.Job) table.Cell {
			if j.Worker == nil {
				return table.Text("")
			}
			return table.Text(j.Worker.FullName)
		}},
		{Key: "finalTotalPrice", Label: "Total", Align: table.AlignRight, Render: func(j booking.Job) table.Cell {
			return table.Text(j.FinalTotalPrice.StringFixed(2))
		}},
		{Key: "startDate", Sortable: true, Render: func(j booking.Job) table.Cell {
			return table.Text(console.FormatTime(j.StartDate))
		}},
	}
}

func optionRowSpecs(opt booking.JobItemOption) []form.Spec {
	return []form.Spec{
		{Label: "Option", Alias: "refId", Type: form.TypeDropdown, Value: form.Text(opt.RefID), Required: true},
		{Label: "Quantity", Alias: "quantity", Type: form.TypeNumber, Value: form.Int(max(opt.Quantity, 1)), Required: true},
	}
}

func itemRowSpecs(item booking.JobItem, choices []form.Choice) []form.Spec {
	options := make([][]form.Spec, 0, len(item.Options))
	for _, opt := range item.Options {
		options = append(options, optionRowSpecs(opt))
	}
	return []form.Spec{
		// the item of an existing line is fixed; only new lines pick one
		{Label: "Item", Alias: "refId", Type: form.TypeDropdown, Value: form.Text(item.RefID), Required: true, Disabled: item.RefID != "", Choices: choices},
		{Label: "Quantity", Alias: "quantity", Type: form.TypeNumber, Value: form.Int(max(item.Quantity, 1)), Required: true},
		{Label: "Options", Alias: "options", Type: form.TypeSubForm, Rows: options, Template: optionRowSpecs(booking.JobItemOption{})},
	}
}

// itemsSpec builds the editable line item sub-form shared by job create and
// the items section of the job editor
func itemsSpec(items []booking.JobItem, choices []form.Choice) form.Spec {
	rows := make([][]form.Spec, 0, len(items))
	for _, item := range items {
		rows = append(rows, itemRowSpecs(item, choices))
	}
	return form.Spec{
		Label: "Items", Alias: "items", Type: form.TypeSubForm, Required: true,
		Rows: rows, Template: itemRowSpecs(booking.JobItem{}, choices),
	}
}

// catalogIndex resolves item and option ids to their records
type catalogIndex struct {
	items      map[string]catalog.Item
	options    map[string]catalog.Option
	itemRows   []catalog.Item
	optionRows []catalog.Option
}

func loadCatalog(ctx context.Context, lookups *console.Lookups) (*catalogIndex, error) {
	items, err := lookups.Items(ctx)
	if err != nil {
		return nil, err
	}
	options, err := lookups.Options(ctx)
	if err != nil {
		return nil, err
	}
	idx := &catalogIndex{
		items:      make(map[string]catalog.Item, len(items)),
		options:    make(map[string]catalog.Option, len(options)),
		itemRows:   items,
		optionRows: options,
	}
	for _, i := range items {
		idx.items[i.ID] = i
	}
	for _, o := range options {
		idx.options[o.ID] = o
	}
	return idx, nil
}

// optionChoices lists the options an item offers; items without an explicit
// option list offer every option of their category
func (c *catalogIndex) optionChoices(itemID string) []form.Choice {
	item, ok := c.items[itemID]
	if !ok {
		return nil
	}
	if len(item.OptionIDs) == 0 {
		return console.OptionChoices(c.optionRows, item.CategoryID)
	}
	out := make([]form.Choice, 0, len(item.OptionIDs))
	for _, id := range item.OptionIDs {
		if o, ok := c.options[id]; ok {
			out = append(out, form.Choice{ID: o.ID, Name: o.Name})
		}
	}
	return out
}

func hasChoice(choices []form.Choice, id string) bool {
	return slices.ContainsFunc(choices, func(c form.Choice) bool { return c.ID == id })
}

// deriveItems narrows every item row to the category and every option row to
// the options of its item, clearing selections that fell out of range
func (c *catalogIndex) deriveItems(s form.Scope, categoryID string) {
	itemChoices := console.ItemChoices(c.itemRows, categoryID)
	for _, row := range s.Rows("items") {
		item := row.Field("refId")
		if item == nil {
			continue
		}
		item.Choices = itemChoices
		if !item.Disabled && !hasChoice(itemChoices, item.Value.Text) {
			item.Value = form.Value{}
		}
		optionChoices := c.optionChoices(item.Value.Text)
		for _, opt := range row.Rows("options") {
			field := opt.Field("refId")
			if field == nil {
				continue
			}
			field.Choices = optionChoices
			if !hasChoice(optionChoices, field.Value.Text) {
				field.Value = form.Value{}
			}
		}
	}
}

type jobForms struct {
	lookups *console.Lookups
}

func (b jobForms) build(ctx context.Context, rec *booking.Job) (*form.Form, error) {
	if rec != nil {
		return jobDetailForm(rec), nil
	}
	idx, err := loadCatalog(ctx, b.lookups)
	if err != nil {
		return nil, err
	}
	f := form.New(
		form.Spec{Label: "Customer Name", Alias: "customerName", Type: form.TypeText, Required: true},
		form.Spec{Label: "Phone Number", Alias: "phoneNumber", Type: form.TypeText, Required: true},
		form.Spec{Label: "Address", Alias: "address", Type: form.TypeText, Required: true},
		form.Spec{Label: "Note", Alias: "note", Type: form.TypeText},
		form.Spec{Label: "Start Date", Alias: "startDate", Type: form.TypeDateTime, Required: true},
		itemsSpec(nil, console.ItemChoices(idx.itemRows, "")),
	)
	return f, nil
}

// rules keep later items in the category of the first one
func (b jobForms) rules(ctx context.Context, f *form.Form, _ form.Ref) error {
	if _, ok := f.Lookup("csId"); ok {
		return nil
	}
	idx, err := loadCatalog(ctx, b.lookups)
	if err != nil {
		return err
	}
	s := f.Scope()
	rows := s.Rows("items")
	if len(rows) == 0 {
		return nil
	}
	idx.deriveItems(s, idx.items[rows[0].Text("refId")].CategoryID)
	// the first row picks the category, so it keeps every item
	if first := rows[0].Field("refId"); first != nil {
		first.Choices = console.ItemChoices(idx.itemRows, "")
	}
	return nil
}

func (b jobForms) input(ctx context.Context, f *form.Form) (booking.JobCreateInput, error) {
	idx, err := loadCatalog(ctx, b.lookups)
	if err != nil {
		return booking.JobCreateInput{}, err
	}
	r := console.Read(f.Scope())
	in := booking.JobCreateInput{
		CustomerName: r.Text("customerName"),
		PhoneNumber:  r.Text("phoneNumber"),
		Address:      r.Text("address"),
		Note:         r.Text("note"),
		StartDate:    r.Time("startDate"),
		Items:        []booking.JobItemInput{},
	}
	for i, row := range r.Rows("items") {
		item, ok := idx.items[row.Text("refId")]
		if !ok {
			return in, shared.Errorf(shared.CodeInvalidInput, "unknown item %q", row.Text("refId"))
		}
		if i == 0 {
			in.CategoryID = item.CategoryID
		}
		line := booking.JobItemInput{
			RefID:    item.ID,
			Name:     item.Name,
			Quantity: row.Int("quantity"),
			Options:  []booking.JobItemOptionInput{},
		}
		for _, opt := range row.Rows("options") {
			o, ok := idx.options[opt.Text("refId")]
			if !ok {
				return in, shared.Errorf(shared.CodeInvalidInput, "unknown option %q", opt.Text("refId"))
			}
			line.Options = append(line.Options, booking.JobItemOptionInput{RefID: o.ID, Name: o.Name, Quantity: opt.Int("quantity")})
		}
		in.Items = append(in.Items, line)
	}
	return in, r.Err()
}

func jobDetailForm(j *booking.Job) *form.Form {
	worker, category := "", j.CategoryID
	if j.Worker != nil {
		worker = j.Worker.FullName
	}
	if j.Category != nil && j.Category.Name != "" {
		category = j.Category.Name
	}
	var meta booking.Metadata
	if j.Metadata != nil {
		meta = *j.Metadata
	}
	items := make([][]form.Spec, 0, len(j.Items))
	for _, item := range j.Items {
		options := make([][]form.Spec, 0, len(item.Options))
		for _, opt := range item.Options {
			options = append(options, []form.Spec{
				{Label: "Option", Alias: "name", Type: form.TypeText, Value: form.Text(opt.Name)},
				{Label: "Quantity", Alias: "quantity", Type: form.TypeNumber, Value: form.Int(opt.Quantity)},
				amount("Price", "price", opt.Price),
				amount("Final Price", "finalPrice", opt.FinalPrice),
			})
		}
		items = append(items, []form.Spec{
			{Label: "Item", Alias: "name", Type: form.TypeText, Value: form.Text(item.Name)},
			{Label: "Quantity", Alias: "quantity", Type: form.TypeNumber, Value: form.Int(item.Quantity)},
			amount("Price", "price", item.Price),
			amount("Final Price", "finalPrice", item.FinalPrice),
			{Label: "Options", Alias: "options", Type: form.TypeSubForm, Rows: options},
		})
	}

	return form.New(
		form.Spec{Label: "Job", Alias: "csId", Type: form.TypeText, Value: form.Text(j.CsID)},
		form.Spec{Label: "Customer Name", Alias: "customerName", Type: form.TypeText, Value: form.Text(j.CustomerName)},
		form.Spec{Label: "Phone Number", Alias: "phoneNumber", Type: form.TypeText, Value: form.Text(j.PhoneNumber)},
		form.Spec{Label: "Address", Alias: "address", Type: form.TypeText, Value: form.Text(j.Address)},
		form.Spec{Label: "Note", Alias: "note", Type: form.TypeText, Value: form.Text(j.Note)},
		form.Spec{Label: "Admin Note", Alias: "adminNote", Type: form.TypeText, Value: form.Text(j.AdminNote)},
		form.Spec{Label: "Status", Alias: "status", Type: form.TypeText, Value: form.Text(string(j.Status))},
		form.Spec{Label: "Worker", Alias: "worker", Type: form.TypeText, Value: form.Text(worker)},
		form.Spec{Label: "Category", Alias: "category", Type: form.TypeText, Value: form.Text(category)},
		form.Spec{Label: "Campaign Code", Alias: "campaignCode", Type: form.TypeText, Value: form.Text(j.CampaignCode())},
		form.Spec{Label: "Transaction", Alias: "transactionId", Type: form.TypeLink, Value: form.Text(transactionHref(j.TransactionID))},
		amount("Total Price", "totalPrice", j.TotalPrice),
		amount("Discount", "totalDiscountPrice", j.TotalDiscountPrice),
		amount("Final Total", "finalTotalPrice", j.FinalTotalPrice),
		form.Spec{Label: "Est. Time (min)", Alias: "totalEstTime", Type: form.TypeNumber, Value: form.Text(strconv.Itoa(j.TotalEstTime))},
		form.Spec{Label: "Start Date", Alias: "startDate", Type: form.TypeDateTime, Value: console.DateTimeValue(j.StartDate)},
		form.Spec{Label: "End Date", Alias: "endDate", Type: form.TypeDateTime, Value: console.DateTimeValue(j.EndDate)},
		form.Spec{Label: "UTM Source", Alias: "utmSource", Type: form.TypeText, Value: form.Text(meta.UTMSource)},
		form.Spec{Label: "UTM Medium", Alias: "utmMedium", Type: form.TypeText, Value: form.Text(meta.UTMMedium)},
		form.Spec{Label: "UTM Campaign", Alias: "utmCampaign", Type: form.TypeText, Value: form.Text(meta.UTMCampaign)},
		form.Spec{Label: "Images", Alias: "imageUrls", Type: form.TypeImage, MultiSelect: true, Value: form.List(j.ImageURLs...)},
		form.Spec{Label: "Work Images", Alias: "workImageUrls", Type: form.TypeImage, MultiSelect: true, Value: form.List(j.WorkImageURLs...)},
		form.Spec{Label: "Items", Alias: "items", Type: form.TypeSubForm, Rows: items},
	)
}

func amount(label, alias string, d decimal.Decimal) form.Spec {
	return form.Spec{Label: label, Alias: alias, Type: form.TypeNumber, Value: form.Text(d.StringFixed(2))}
}

func transactionHref(id string) string {
	if id == "" {
		return ""
	}
	return "/transaction/" + id
}

// NewJobScreen creates the job screen. Jobs are edited section by section
// through the JobEditor, so the screen itself has no update.
func NewJobScreen(repo booking.JobRepository, lookups *console.Lookups, pageSize int) *console.Resource[booking.Job] {
	b := jobForms{lookups: lookups}
	return console.NewResource[booking.Job](EntityJob, repo, JobColumns(), b.build,
		console.WithPageSize[booking.Job](pageSize),
		console.WithRules[booking.Job](b.rules),
		console.WithCreate[booking.Job](console.CreateWith[booking.JobCreateInput](repo, b.input)),
		console.WithDelete[booking.Job](repo),
	)
}
