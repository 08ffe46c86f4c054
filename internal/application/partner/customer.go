package partner

import (
	"context"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/partner"
	"github.com/bookingops/console/internal/domain/table"
)

// CustomerColumns are the list columns of the customer screen
func CustomerColumns() []table.Column[partner.Customer] {
	return []table.Column[partner.Customer]{
		{Key: "name", MinWidth: 160, Render: func(c partner.Customer) table.Cell {
			return table.Link(c.FullName(), detailHref(EntityCustomer, c.ID))
		}},
		{Key: "phoneNumber", Label: "Phone", MinWidth: 120, Render: func(c partner.Customer) table.Cell { return table.Text(c.PhoneNumber) }},
		{Key: "email", Render: func(c partner.Customer) table.Cell { return table.Text(c.Email) }},
		{Key: "city", Render: func(c partner.Customer) table.Cell { return table.Text(c.City) }},
		{Key: "address", MinWidth: 200, Render: func(c partner.Customer) table.Cell { return table.Text(c.Address) }},
		{Key: "createdAt", Sortable: true, Render: func(c partner.Customer) table.Cell {
			return table.Text(console.FormatTime(c.CreatedAt))
		}},
	}
}

// customers register through the booking app, so the form only edits
func buildCustomerForm(_ context.Context, rec *partner.Customer) (*form.Form, error) {
	var c partner.Customer
	if rec != nil {
		c = *rec
	}
	return form.New(
		form.Spec{Label: "First Name", Alias: "firstName", Type: form.TypeText, Value: form.Text(c.FirstName), Required: true},
		form.Spec{Label: "Last Name", Alias: "lastName", Type: form.TypeText, Value: form.Text(c.LastName)},
		form.Spec{Label: "Gender", Alias: "gender", Type: form.TypeDropdown, Value: form.Text(string(c.Gender)), Choices: console.EnumChoices(partner.Genders)},
		form.Spec{Label: "Date of Birth", Alias: "dob", Type: form.TypeDate, Value: console.DateValue(c.DOB)},
		form.Spec{Label: "Phone Number", Alias: "phoneNumber", Type: form.TypeText, Value: form.Text(c.PhoneNumber), Required: true},
		form.Spec{Label: "Email", Alias: "email", Type: form.TypeText, Value: form.Text(c.Email)},
		form.Spec{Label: "City", Alias: "city", Type: form.TypeText, Value: form.Text(c.City)},
		form.Spec{Label: "District", Alias: "district", Type: form.TypeText, Value: form.Text(c.District)},
		form.Spec{Label: "Ward", Alias: "ward", Type: form.TypeText, Value: form.Text(c.Ward)},
		form.Spec{Label: "Address", Alias: "address", Type: form.TypeText, Value: form.Text(c.Address)},
		form.Spec{Label: "Avatar", Alias: "imageUrl", Type: form.TypeImage, Value: console.OptionalList(c.ImageURL)},
	), nil
}

func customerInput(_ context.Context, f *form.Form) (partner.CustomerInput, error) {
	r := console.Read(f.Scope())
	return partner.CustomerInput{
		FirstName:   r.Text("firstName"),
		LastName:    r.Text("lastName"),
		Gender:      partner.Gender(r.Text("gender")),
		DOB:         r.Time("dob"),
		PhoneNumber: r.Text("phoneNumber"),
		Email:       r.Text("email"),
		City:        r.Text("city"),
		District:    r.Text("district"),
		Ward:        r.Text("ward"),
		Address:     r.Text("address"),
		ImageURL:    firstOf(r.List("imageUrl")),
	}, r.Err()
}

// NewCustomerScreen creates the customer screen. Customers cannot be created.
func NewCustomerScreen(repo partner.CustomerRepository, pageSize int) *console.Resource[partner.Customer] {
	return console.NewResource[partner.Customer](EntityCustomer, repo, CustomerColumns(), buildCustomerForm,
		console.WithPageSize[partner.Customer](pageSize),
		console.WithUpdate[partner.Customer](console.UpdateWith[partner.CustomerInput](repo, customerInput)),
		console.WithDelete[partner.Customer](repo),
	)
}
