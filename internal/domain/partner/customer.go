package partner

import (
	"time"

	"github.com/bookingops/console/internal/domain/shared"
)

// Customer is an end customer who books jobs. Customers register themselves;
// the console can edit and delete them but not create them.
type Customer struct {
	ID          string     `json:"_id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Gender      Gender     `json:"gender"`
	DOB         *time.Time `json:"dob,omitempty"`
	PhoneNumber string     `json:"phoneNumber"`
	Email       string     `json:"email"`
	City        string     `json:"city"`
	District    string     `json:"district"`
	Ward        string     `json:"ward"`
	Address     string     `json:"address"`
	ImageURL    string     `json:"imageUrl"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// FullName joins first and last name
func (c Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// CustomerInput is the update payload for a customer
type CustomerInput struct {
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	Gender      Gender     `json:"gender,omitempty"`
	DOB         *time.Time `json:"dob,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Email       string     `json:"email,omitempty"`
	City        string     `json:"city,omitempty"`
	District    string     `json:"district,omitempty"`
	Ward        string     `json:"ward,omitempty"`
	Address     string     `json:"address,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
}

// CustomerRepository is the remote customer collection
type CustomerRepository interface {
	shared.Reader[Customer]
	shared.Updater[CustomerInput]
	shared.Deleter
}
