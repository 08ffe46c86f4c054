// Package booking holds jobs, their line items and the pre-booking price quote.
package booking

import (
	"context"
	"time"

	"github.com/bookingops/console/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// JobStatus is the lifecycle state of a job
type JobStatus string

const (
	JobPending     JobStatus = "Pending"
	JobConfirmed   JobStatus = "Confirmed"
	JobAssigned    JobStatus = "Assigned"
	JobInProgress  JobStatus = "InProgress"
	JobCompleted   JobStatus = "Completed"
	JobCancelled   JobStatus = "Cancelled"
	JobRescheduled JobStatus = "Rescheduled"
)

// JobStatuses lists the job statuses in display order
var JobStatuses = []JobStatus{
	JobPending, JobConfirmed, JobAssigned, JobInProgress, JobCompleted, JobCancelled, JobRescheduled,
}

// JobItemOption is an option line inside a job item
type JobItemOption struct {
	RefID      string          `json:"refId"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
}

// JobItem is a priced line of a job
type JobItem struct {
	RefID      string          `json:"refId"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
	Options    []JobItemOption `json:"options"`
}

// AppliedTarget is a promotion target the pricing engine applied
type AppliedTarget struct {
	Name          string          `json:"name"`
	Condition     string          `json:"condition"`
	PromotionType string          `json:"promotionType"`
	RefID         string          `json:"refId"`
	TargetType    string          `json:"targetType"`
	Value         decimal.Decimal `json:"value"`
}

// AppliedCampaign is a campaign the pricing engine applied
type AppliedCampaign struct {
	Code           string          `json:"code"`
	RefID          string          `json:"refId"`
	Type           string          `json:"type"`
	AppliedTargets []AppliedTarget `json:"appliedTargets"`
}

// Metadata carries marketing attribution of a job
type Metadata struct {
	UTMSource   string `json:"utmSource,omitempty"`
	UTMMedium   string `json:"utmMedium,omitempty"`
	UTMCampaign string `json:"utmCampaign,omitempty"`
}

// WorkerRef is the assigned worker as embedded in a job
type WorkerRef struct {
	ID       string `json:"_id"`
	FullName string `json:"fullName"`
}

// Job is a booked service visit
type Job struct {
	ID                 string            `json:"_id"`
	CsID               string            `json:"csId"`
	CustomerName       string            `json:"customerName"`
	PhoneNumber        string            `json:"phoneNumber"`
	Address            string            `json:"address"`
	Note               string            `json:"note"`
	AdminNote          string            `json:"adminNote"`
	ImageURLs          []string          `json:"imageUrls"`
	WorkImageURLs      []string          `json:"workImageUrls"`
	Status             JobStatus         `json:"status"`
	WorkerID           string            `json:"workerId"`
	Worker             *WorkerRef        `json:"worker,omitempty"`
	TransactionID      string            `json:"transactionId"`
	CategoryID         string            `json:"categoryId"`
	Category           *shared.Ref       `json:"category,omitempty"`
	AppliedCampaigns   []AppliedCampaign `json:"appliedCampaigns"`
	TotalPrice         decimal.Decimal   `json:"totalPrice"`
	TotalDiscountPrice decimal.Decimal   `json:"totalDiscountPrice"`
	FinalTotalPrice    decimal.Decimal   `json:"finalTotalPrice"`
	TotalEstTime       int               `json:"totalEstTime"`
	Metadata           *Metadata         `json:"metadata,omitempty"`
	Items              []JobItem         `json:"items"`
	StartDate          *time.Time        `json:"startDate,omitempty"`
	EndDate            *time.Time        `json:"endDate,omitempty"`
	CreatedAt          *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time        `json:"updatedAt,omitempty"`
}

// CampaignCode joins the codes of applied campaigns that are redeemed by code.
// Category campaigns apply automatically and are left out.
func (j *Job) CampaignCode() string {
	code := ""
	for _, c := range j.AppliedCampaigns {
		if c.Type == "Category" || c.Code == "" {
			continue
		}
		if code != "" {
			code += ", "
		}
		code += c.Code
	}
	return code
}

// JobItemOptionInput is an option line of a new job
type JobItemOptionInput struct {
	RefID    string `json:"refId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// JobItemInput is an item line of a new job
type JobItemInput struct {
	RefID    string               `json:"refId"`
	Name     string               `json:"name"`
	Quantity int                  `json:"quantity"`
	Options  []JobItemOptionInput `json:"options"`
}

// JobCreateInput is the payload of createJob
type JobCreateInput struct {
	CustomerName string         `json:"customerName"`
	PhoneNumber  string         `json:"phoneNumber"`
	Address      string         `json:"address"`
	Note         string         `json:"note,omitempty"`
	StartDate    *time.Time     `json:"startDate,omitempty"`
	CategoryID   string         `json:"categoryId"`
	Items        []JobItemInput `json:"items"`
}

// JobUpdateInput is the payload of updateJobById for the general section
type JobUpdateInput struct {
	Address       string   `json:"address"`
	AdminNote     string   `json:"adminNote"`
	ImageURLs     []string `json:"imageUrls"`
	WorkImageURLs []string `json:"workImageUrls"`
}

// StatusInput is the payload of updateJobStatusById.
// StartDate is only sent when rescheduling.
type StatusInput struct {
	Status    JobStatus  `json:"status"`
	StartDate *time.Time `json:"startDate,omitempty"`
}

// AssignWorkerInput is the payload of assignJobWorkerById
type AssignWorkerInput struct {
	WorkerID string `json:"workerId"`
}

// JobRepository is the remote job collection plus the job workflow mutations
type JobRepository interface {
	shared.Reader[Job]
	shared.Creator[JobCreateInput]
	shared.Updater[JobUpdateInput]
	shared.Deleter
	UpdateStatus(ctx context.Context, id string, input StatusInput) error
	AssignWorker(ctx context.Context, id string, input AssignWorkerInput) error
	PreBooking(ctx context.Context, cart Cart) (*PreBooking, error)
	UpdateItems(ctx context.Context, id string, input ItemsUpdateInput) error
}
