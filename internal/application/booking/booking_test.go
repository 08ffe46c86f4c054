package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/booking"
	"github.com/bookingops/console/internal/domain/catalog"
	"github.com/bookingops/console/internal/domain/partner"
	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/infrastructure/cache"
)

// MockJobRepository is a mock implementation of booking.JobRepository
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Search(ctx context.Context, req shared.PageRequest) (*shared.Page[booking.Job], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Page[booking.Job]), args.Error(1)
}

func (m *MockJobRepository) FindByID(ctx context.Context, id string) (*booking.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Job), args.Error(1)
}

func (m *MockJobRepository) Create(ctx context.Context, input booking.JobCreateInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockJobRepository) Update(ctx context.Context, id string, input booking.JobUpdateInput) error {
	return m.Called(ctx, id, input).Error(0)
}

func (m *MockJobRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockJobRepository) UpdateStatus(ctx context.Context, id string, input booking.StatusInput) error {
	return m.Called(ctx, id, input).Error(0)
}

func (m *MockJobRepository) AssignWorker(ctx context.Context, id string, input booking.AssignWorkerInput) error {
	return m.Called(ctx, id, input).Error(0)
}

func (m *MockJobRepository) PreBooking(ctx context.Context, cart booking.Cart) (*booking.PreBooking, error) {
	args := m.Called(ctx, cart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.PreBooking), args.Error(1)
}

func (m *MockJobRepository) UpdateItems(ctx context.Context, id string, input booking.ItemsUpdateInput) error {
	return m.Called(ctx, id, input).Error(0)
}

// MockReader is a mock of a lookup collection
type MockReader[T any] struct {
	mock.Mock
}

func (m *MockReader[T]) Search(ctx context.Context, req shared.PageRequest) (*shared.Page[T], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Page[T]), args.Error(1)
}

func (m *MockReader[T]) FindByID(ctx context.Context, id string) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func pageOf[T any](nodes ...T) *shared.Page[T] {
	return &shared.Page[T]{Nodes: nodes, TotalCount: len(nodes)}
}

type fixture struct {
	jobs    *MockJobRepository
	lookups *console.Lookups
	store   shared.StateStore
	editor  *JobEditor
	ctx     context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := cache.NewInMemoryStateStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	items := new(MockReader[catalog.Item])
	items.On("Search", mock.Anything, shared.AllPages()).Return(pageOf(
		catalog.Item{ID: "i1", Name: "Sofa", CategoryID: "c1", OptionIDs: []string{"o1"}},
		catalog.Item{ID: "i2", Name: "Carpet", CategoryID: "c1"},
		catalog.Item{ID: "i3", Name: "Fridge", CategoryID: "c2"},
	), nil).Maybe()
	options := new(MockReader[catalog.Option])
	options.On("Search", mock.Anything, shared.AllPages()).Return(pageOf(
		catalog.Option{ID: "o1", Name: "Extra room", CategoryID: "c1"},
		catalog.Option{ID: "o2", Name: "Stain removal", CategoryID: "c1"},
		catalog.Option{ID: "o3", Name: "Spare part", CategoryID: "c2"},
	), nil).Maybe()
	workers := new(MockReader[partner.Worker])
	workers.On("Search", mock.Anything, shared.AllPages()).Return(pageOf(
		partner.Worker{ID: "w1", FullName: "Lan Tran", CategoryID: "c1"},
		partner.Worker{ID: "w2", FullName: "Minh Le", CategoryID: "c2"},
	), nil).Maybe()

	fx := &fixture{jobs: new(MockJobRepository), store: store, ctx: context.Background()}
	fx.lookups = console.NewLookups(console.LookupSources{Items: items, Options: options, Workers: workers}, store, time.Minute)
	fx.editor = NewJobEditor(fx.jobs, fx.lookups, store, time.Hour)
	return fx
}

func sampleJob() *booking.Job {
	return &booking.Job{
		ID:         "job-1",
		CategoryID: "c1",
		Status:     booking.JobConfirmed,
		Address:    "1 Main St",
		AppliedCampaigns: []booking.AppliedCampaign{
			{Code: "SPRING10", Type: "Code"},
			{Code: "c1", Type: "Category"},
		},
		Items: []booking.JobItem{{
			RefID: "i1", Name: "Sofa", Quantity: 1,
			Options: []booking.JobItemOption{{RefID: "o1", Name: "Extra room", Quantity: 2}},
		}},
	}
}

func (fx *fixture) withJob() {
	fx.jobs.On("FindByID", mock.Anything, "job-1").Return(sampleJob(), nil).Maybe()
}
