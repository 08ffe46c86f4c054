package gateway

import (
	"context"

	"github.com/bookingops/console/internal/domain/booking"
)

const (
	jobListFields = `_id csId address category { _id name } customerName totalPrice totalDiscountPrice finalTotalPrice phoneNumber status startDate endDate`

	jobItemFields = `refId name quantity price finalPrice options { refId name quantity price finalPrice }`

	appliedCampaignFields = `code refId type appliedTargets { name condition promotionType refId targetType value }`

	jobFields = `_id category { _id name } categoryId appliedCampaigns { ` + appliedCampaignFields + ` }
    transactionId phoneNumber customerName csId note adminNote address imageUrls status
    totalPrice finalTotalPrice totalDiscountPrice totalEstTime workImageUrls workerId
    metadata { utmCampaign utmMedium utmSource }
    items { ` + jobItemFields + ` }
    startDate endDate createdAt updatedAt`

	preBookingQuery = `mutation preBookingJob($input: PreBookingJobInput!) {
  preBookingJob(input: $input) {
    appliedCampaigns { ` + appliedCampaignFields + ` }
    totalPrice
    finalTotalPrice
    totalDiscountPrice
    totalEstTime
    items { ` + jobItemFields + ` }
  }
}`
)

// JobRepository binds jobs and the job workflow mutations
type JobRepository struct {
	*collection[booking.Job, booking.JobUpdateInput]
	client *Client
}

var _ booking.JobRepository = (*JobRepository)(nil)

// NewJobRepository binds the job collection
func NewJobRepository(c *Client) *JobRepository {
	return &JobRepository{
		collection: newCollection[booking.Job, booking.JobUpdateInput](c, "Job", jobListFields, jobFields),
		client:     c,
	}
}

// Create runs createJob. Jobs have a create input distinct from their update input.
func (r *JobRepository) Create(ctx context.Context, input booking.JobCreateInput) (string, error) {
	const query = `mutation createJob($input: JobCreateInput!) {
  createJob(input: $input) { _id }
}`
	res, err := mustCall[idResult](ctx, r.client, "createJob", query, map[string]any{"input": input})
	if err != nil {
		return "", err
	}
	return res.ID, nil
}

// UpdateStatus runs updateJobStatusById
func (r *JobRepository) UpdateStatus(ctx context.Context, id string, input booking.StatusInput) error {
	return r.client.updateByID(ctx, "updateJobStatusById", "JobUpdateStatusInput", id, input)
}

// AssignWorker runs assignJobWorkerById
func (r *JobRepository) AssignWorker(ctx context.Context, id string, input booking.AssignWorkerInput) error {
	return r.client.updateByID(ctx, "assignJobWorkerById", "JobAssignWorkerInput", id, input)
}

// PreBooking asks the API to price a cart. Nothing is persisted.
func (r *JobRepository) PreBooking(ctx context.Context, cart booking.Cart) (*booking.PreBooking, error) {
	if cart.Items == nil {
		cart.Items = []booking.CartItem{}
	}
	return mustCall[booking.PreBooking](ctx, r.client, "preBookingJob", preBookingQuery, map[string]any{"input": cart})
}

// UpdateItems runs updateJobItemsById with a quote returned by PreBooking
func (r *JobRepository) UpdateItems(ctx context.Context, id string, input booking.ItemsUpdateInput) error {
	return r.client.updateByID(ctx, "updateJobItemsById", "JobItemsUpdateInput", id, input)
}
