// Package partner builds the worker and customer screens.
package partner

import (
	"context"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/partner"
	"github.com/bookingops/console/internal/domain/table"
)

// Entity names used in routes
const (
	EntityWorker   = "worker"
	EntityCustomer = "customer"
)

func detailHref(entity, id string) string {
	return "/" + entity + "/" + id
}

func firstOf(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

// WorkerColumns are the list columns of the worker screen
func WorkerColumns() []table.Column[partner.Worker] {
	return []table.Column[partner.Worker]{
		{Key: "fullName", Label: "Name", MinWidth: 160, Render: func(w partner.Worker) table.Cell {
			return table.Link(w.DisplayName(), detailHref(EntityWorker, w.ID))
		}},
		{Key: "phoneNumber", Label: "Phone", MinWidth: 120, Render: func(w partner.Worker) table.Cell { return table.Text(w.PhoneNumber) }},
		{Key: "email", Render: func(w partner.Worker) table.Cell { return table.Text(w.Email) }},
		{Key: "role", Render: func(w partner.Worker) table.Cell { return table.Text(string(w.Role)) }},
		{Key: "isAvailable", Label: "Available", Align: table.AlignCenter, Render: func(w partner.Worker) table.Cell {
			if w.IsAvailable {
				return table.Text("Yes")
			}
			return table.Text("No")
		}},
		{Key: "createdAt", Sortable: true, Render: func(w partner.Worker) table.Cell {
			return table.Text(console.FormatTime(w.CreatedAt))
		}},
	}
}

type workerForms struct {
	lookups *console.Lookups
}

func (b workerForms) build(ctx context.Context, rec *partner.Worker) (*form.Form, error) {
	categories, err := b.lookups.Categories(ctx)
	if err != nil {
		return nil, err
	}
	w := partner.Worker{Role: partner.RoleWorker, IsAvailable: true}
	if rec != nil {
		w = *rec
	}
	return form.New(
		form.Spec{Label: "First Name", Alias: "firstName", Type: form.TypeText, Value: form.Text(w.FirstName), Required: true},
		form.Spec{Label: "Last Name", Alias: "lastName", Type: form.TypeText, Value: form.Text(w.LastName), Required: true},
		form.Spec{Label: "Gender", Alias: "gender", Type: form.TypeDropdown, Value: form.Text(string(w.Gender)), Choices: console.EnumChoices(partner.Genders)},
		form.Spec{Label: "Phone Number", Alias: "phoneNumber", Type: form.TypeText, Value: form.Text(w.PhoneNumber), Required: true},
		form.Spec{Label: "Email", Alias: "email", Type: form.TypeText, Value: form.Text(w.Email)},
		form.Spec{Label: "Date of Birth", Alias: "dob", Type: form.TypeDate, Value: console.DateValue(w.DOB)},
		form.Spec{Label: "Role", Alias: "role", Type: form.TypeDropdown, Value: form.Text(string(w.Role)), Choices: console.EnumChoices(partner.WorkerRoles)},
		form.Spec{Label: "Category", Alias: "categoryId", Type: form.TypeDropdown, Value: form.Text(w.CategoryID), Choices: console.CategoryChoices(categories)},
		form.Spec{Label: "Avatar", Alias: "imageUrl", Type: form.TypeImage, Value: console.OptionalList(w.ImageURL)},
		form.Spec{Label: "Available", Alias: "isAvailable", Type: form.TypeCheckbox, Value: form.Bool(w.IsAvailable)},
	), nil
}

func workerInput(_ context.Context, f *form.Form) (partner.WorkerInput, error) {
	r := console.Read(f.Scope())
	return partner.WorkerInput{
		FirstName:   r.Text("firstName"),
		LastName:    r.Text("lastName"),
		Gender:      partner.Gender(r.Text("gender")),
		PhoneNumber: r.Text("phoneNumber"),
		Email:       r.Text("email"),
		DOB:         r.Time("dob"),
		Role:        partner.WorkerRole(r.Text("role")),
		CategoryID:  r.Text("categoryId"),
		ImageURL:    firstOf(r.List("imageUrl")),
		IsAvailable: r.Optional("isAvailable"),
	}, r.Err()
}

// NewWorkerScreen creates the worker screen
func NewWorkerScreen(repo partner.WorkerRepository, lookups *console.Lookups, pageSize int) *console.Resource[partner.Worker] {
	b := workerForms{lookups: lookups}
	return console.NewResource[partner.Worker](EntityWorker, repo, WorkerColumns(), b.build,
		console.WithPageSize[partner.Worker](pageSize),
		console.WithCreate[partner.Worker](console.CreateWith[partner.WorkerInput](repo, workerInput)),
		console.WithUpdate[partner.Worker](console.UpdateWith[partner.WorkerInput](repo, workerInput)),
		console.WithDelete[partner.Worker](repo),
	)
}
