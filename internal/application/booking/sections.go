package booking

import (
	"context"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/booking"
	"github.com/bookingops/console/internal/domain/form"
)

// sectionForm builds the editable form of one section from the job
func (e *JobEditor) sectionForm(ctx context.Context, sec booking.Section, job *booking.Job) (*form.Form, error) {
	switch sec {
	case booking.SectionGeneral:
		return form.New(
			form.Spec{Label: "Address", Alias: "address", Type: form.TypeText, Value: form.Text(job.Address), Required: true},
			form.Spec{Label: "Admin Note", Alias: "adminNote", Type: form.TypeText, Value: form.Text(job.AdminNote)},
			form.Spec{Label: "Images", Alias: "imageUrls", Type: form.TypeImage, MultiSelect: true, Value: form.List(job.ImageURLs...)},
			form.Spec{Label: "Work Images", Alias: "workImageUrls", Type: form.TypeImage, MultiSelect: true, Value: form.List(job.WorkImageURLs...)},
		), nil

	case booking.SectionStatus:
		f := form.New(
			form.Spec{Label: "Status", Alias: "status", Type: form.TypeDropdown, Value: form.Text(string(job.Status)), Required: true, Choices: console.EnumChoices(booking.JobStatuses)},
			form.Spec{Label: "Start Date", Alias: "startDate", Type: form.TypeDateTime, Value: console.DateTimeValue(job.StartDate)},
		)
		deriveStatus(f)
		return f, nil

	case booking.SectionWorker:
		workers, err := e.lookups.Workers(ctx)
		if err != nil {
			return nil, err
		}
		return form.New(
			form.Spec{Label: "Worker", Alias: "workerId", Type: form.TypeDropdown, Value: form.Text(job.WorkerID), Required: true, Choices: console.WorkerChoices(workers, job.CategoryID)},
		), nil

	case booking.SectionItems:
		idx, err := loadCatalog(ctx, e.lookups)
		if err != nil {
			return nil, err
		}
		f := form.New(itemsSpec(job.Items, console.ItemChoices(idx.itemRows, job.CategoryID)))
		idx.deriveItems(f.Scope(), job.CategoryID)
		return f, nil
	}
	return nil, booking.ErrNotEditing
}

func (e *JobEditor) rules(ctx context.Context, st *editState, sec booking.Section, f *form.Form) error {
	switch sec {
	case booking.SectionStatus:
		deriveStatus(f)
	case booking.SectionItems:
		idx, err := loadCatalog(ctx, e.lookups)
		if err != nil {
			return err
		}
		idx.deriveItems(f.Scope(), st.CategoryID)
	}
	return nil
}

// deriveStatus reveals a required start date when the job is rescheduled
func deriveStatus(f *form.Form) {
	s := f.Scope()
	start := s.Field("startDate")
	rescheduled := booking.JobStatus(s.Text("status")) == booking.JobRescheduled
	start.Hidden = !rescheduled
	start.Required = rescheduled
}

// statusInput sends the start date only when rescheduling
func statusInput(f *form.Form) (booking.StatusInput, error) {
	r := console.Read(f.Scope())
	in := booking.StatusInput{Status: booking.JobStatus(r.Text("status"))}
	if in.Status == booking.JobRescheduled {
		in.StartDate = r.Time("startDate")
	}
	return in, r.Err()
}

// buildCart turns the items form into a pre-booking request. The campaign code
// and category come from the job so the API reapplies the same promotions.
func buildCart(f *form.Form, job *booking.Job) (booking.Cart, error) {
	r := console.Read(f.Scope())
	cart := booking.Cart{
		Items:        []booking.CartItem{},
		CampaignCode: job.CampaignCode(),
		CategoryID:   job.CategoryID,
	}
	for _, row := range r.Rows("items") {
		item := booking.CartItem{
			ID:       row.Text("refId"),
			Quantity: row.Int("quantity"),
			Options:  []booking.CartOption{},
		}
		for _, opt := range row.Rows("options") {
			item.Options = append(item.Options, booking.CartOption{ID: opt.Text("refId"), Quantity: opt.Int("quantity")})
		}
		cart.Items = append(cart.Items, item)
	}
	return cart, r.Err()
}
