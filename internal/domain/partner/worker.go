// Package partner holds the people the business works with: workers and customers.
package partner

import (
	"time"

	"github.com/bookingops/console/internal/domain/shared"
)

// Gender values accepted by the API
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders lists the genders in display order
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// WorkerRole is the role of a worker in the field team
type WorkerRole string

const (
	RoleWorker WorkerRole = "Worker"
	RoleLeader WorkerRole = "Leader"
)

// WorkerRoles lists the roles in display order
var WorkerRoles = []WorkerRole{RoleWorker, RoleLeader}

// Worker is a field worker who can be assigned to jobs
type Worker struct {
	ID               string     `json:"_id"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	FullName         string     `json:"fullName"`
	PhoneNumber      string     `json:"phoneNumber"`
	PhoneCountryCode string     `json:"phoneCountryCode"`
	Email            string     `json:"email"`
	DOB              *time.Time `json:"dob,omitempty"`
	Gender           Gender     `json:"gender"`
	Role             WorkerRole `json:"role"`
	IsAvailable      bool       `json:"isAvailable"`
	IsActive         bool       `json:"isActive"`
	ImageURL         string     `json:"imageUrl"`
	CategoryID       string     `json:"categoryId"`
	CreatedAt        *time.Time `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

// DisplayName returns the full name, falling back to first and last name
func (w Worker) DisplayName() string {
	if w.FullName != "" {
		return w.FullName
	}
	if w.LastName == "" {
		return w.FirstName
	}
	return w.FirstName + " " + w.LastName
}

// WorkerInput is the create/update payload for a worker
type WorkerInput struct {
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	Gender      Gender     `json:"gender,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Email       string     `json:"email,omitempty"`
	DOB         *time.Time `json:"dob,omitempty"`
	Role        WorkerRole `json:"role,omitempty"`
	CategoryID  string     `json:"categoryId,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	IsAvailable *bool      `json:"isAvailable,omitempty"`
}

// WorkerRepository is the remote worker collection
type WorkerRepository interface {
	shared.Repository[Worker, WorkerInput]
}
