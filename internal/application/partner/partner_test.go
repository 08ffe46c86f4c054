package partner

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/catalog"
	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/media"
	"github.com/bookingops/console/internal/domain/partner"
	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/infrastructure/cache"
)

// MockRepository is a generic mock of a remote collection
type MockRepository[T, In any] struct {
	mock.Mock
}

func (m *MockRepository[T, In]) Search(ctx context.Context, req shared.PageRequest) (*shared.Page[T], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Page[T]), args.Error(1)
}

func (m *MockRepository[T, In]) FindByID(ctx context.Context, id string) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockRepository[T, In]) Create(ctx context.Context, input In) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockRepository[T, In]) Update(ctx context.Context, id string, input In) error {
	args := m.Called(ctx, id, input)
	return args.Error(0)
}

func (m *MockRepository[T, In]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type cdnUploader struct{ url string }

func (u cdnUploader) Upload(_ context.Context, _ string, _ media.File, current []string, multiple bool) ([]string, error) {
	if !multiple {
		return []string{u.url}, nil
	}
	return append(append([]string{}, current...), u.url), nil
}

type fixture struct {
	workers   *MockRepository[partner.Worker, partner.WorkerInput]
	customers *MockRepository[partner.Customer, partner.CustomerInput]
	drafts    *console.DraftService
	ctx       context.Context
}

func newFixture(t *testing.T, uploadURL string) *fixture {
	t.Helper()
	store := cache.NewInMemoryStateStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	categories := new(MockRepository[catalog.Category, catalog.CategoryInput])
	categories.On("Search", mock.Anything, shared.AllPages()).Return(&shared.Page[catalog.Category]{
		Nodes: []catalog.Category{{ID: "c1", Name: "Cleaning"}},
	}, nil).Maybe()
	lookups := console.NewLookups(console.LookupSources{Categories: categories}, store, time.Minute)

	fx := &fixture{
		workers:   new(MockRepository[partner.Worker, partner.WorkerInput]),
		customers: new(MockRepository[partner.Customer, partner.CustomerInput]),
		ctx:       context.Background(),
	}
	registry := console.NewRegistry(
		NewWorkerScreen(fx.workers, lookups, 3),
		NewCustomerScreen(fx.customers, 3),
	)
	fx.drafts = console.NewDraftService(registry, store, time.Hour,
		console.WithUploader(cdnUploader{url: uploadURL}), console.WithLookups(lookups))
	return fx
}

func fieldIndex(t *testing.T, view *console.DraftView, alias string) int {
	t.Helper()
	for _, f := range view.Fields {
		if f.Alias == alias {
			return f.Index
		}
	}
	t.Fatalf("field %s not found", alias)
	return -1
}

func TestWorkerScreen_Create(t *testing.T) {
	fx := newFixture(t, "https://cdn/avatar-2.png")

	view, err := fx.drafts.Open(fx.ctx, "sess", EntityWorker, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"firstName", "lastName", "phoneNumber"}, view.Missing)
	assert.Equal(t, true, view.Fields[fieldIndex(t, view, "isAvailable")].Value)

	for alias, v := range map[string]form.Value{
		"firstName":   form.Text("Lan"),
		"lastName":    form.Text("Tran"),
		"phoneNumber": form.Text("(555) 123-4567"),
		"gender":      form.Text("Female"),
		"dob":         form.Text("1990-05-17"),
		"categoryId":  form.Text("c1"),
		"imageUrl":    form.List("https://cdn/avatar-1.png"),
	} {
		view, err = fx.drafts.Change(fx.ctx, "sess", view.ID, form.SetRoot(fieldIndex(t, view, alias), v))
		require.NoError(t, err)
	}

	t.Run("single image upload replaces the avatar", func(t *testing.T) {
		file := media.File{Name: "a.png", ContentType: "image/png", Body: strings.NewReader("png")}
		view, err = fx.drafts.Upload(fx.ctx, "sess", view.ID, form.Change{Index: fieldIndex(t, view, "imageUrl")}, file)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn/avatar-2.png"}, view.Fields[fieldIndex(t, view, "imageUrl")].Value)
	})

	var got partner.WorkerInput
	fx.workers.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		got = args.Get(1).(partner.WorkerInput)
	}).Return("w-1", nil).Once()
	fx.workers.On("Search", mock.Anything, mock.Anything).Return(&shared.Page[partner.Worker]{
		Nodes: []partner.Worker{{ID: "w-1", FirstName: "Lan", LastName: "Tran"}}, TotalCount: 1,
	}, nil).Once()

	result, err := fx.drafts.Submit(fx.ctx, "sess", view.ID)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, "w-1", result.RecordID)

	assert.Equal(t, "Lan", got.FirstName)
	assert.Equal(t, partner.GenderFemale, got.Gender)
	assert.Equal(t, partner.RoleWorker, got.Role)
	assert.Equal(t, "https://cdn/avatar-2.png", got.ImageURL)
	require.NotNil(t, got.DOB)
	assert.Equal(t, "1990-05-17", got.DOB.Format(console.DateLayout))
	require.NotNil(t, got.IsAvailable)
	assert.True(t, *got.IsAvailable)
	fx.workers.AssertExpectations(t)
}

func TestWorkerColumns_DisplayName(t *testing.T) {
	fx := newFixture(t, "")
	fx.workers.On("Search", mock.Anything, mock.Anything).Return(&shared.Page[partner.Worker]{
		Nodes: []partner.Worker{
			{ID: "w-1", FullName: "Lan Tran", IsAvailable: true},
			{ID: "w-2", FirstName: "Minh"},
		},
		TotalCount: 2,
	}, nil)

	screen := NewWorkerScreen(fx.workers, nil, 3)
	view, err := screen.List(fx.ctx, shared.PageRequest{PageNumber: 1})
	require.NoError(t, err)
	require.Len(t, view.Table.Rows, 2)
	assert.Equal(t, "Lan Tran", view.Table.Rows[0][0].Text)
	assert.Equal(t, "Minh", view.Table.Rows[1][0].Text)
	assert.Equal(t, "No", view.Table.Rows[1][4].Text)
}

func TestCustomerScreen(t *testing.T) {
	fx := newFixture(t, "")
	screen := NewCustomerScreen(fx.customers, 3)

	t.Run("create is not supported", func(t *testing.T) {
		assert.False(t, screen.Capabilities().Create)
		assert.True(t, screen.Capabilities().Update)
		assert.True(t, screen.Capabilities().Delete)
		_, err := screen.Create(fx.ctx, form.New())
		assert.True(t, shared.IsCode(err, shared.CodeNotSupported))
	})

	t.Run("edit sends the updated record", func(t *testing.T) {
		fx.customers.On("FindByID", mock.Anything, "cu-1").Return(&partner.Customer{
			ID: "cu-1", FirstName: "Hoa", PhoneNumber: "(555) 000-1111", City: "Hanoi", ImageURL: "https://cdn/hoa.png",
		}, nil).Once()
		view, err := fx.drafts.Open(fx.ctx, "sess", EntityCustomer, "cu-1")
		require.NoError(t, err)
		assert.Empty(t, view.Missing)

		view, err = fx.drafts.Change(fx.ctx, "sess", view.ID, form.SetRoot(fieldIndex(t, view, "ward"), form.Text("Ba Dinh")))
		require.NoError(t, err)

		fx.customers.On("Update", mock.Anything, "cu-1", partner.CustomerInput{
			FirstName: "Hoa", PhoneNumber: "(555) 000-1111", City: "Hanoi", Ward: "Ba Dinh", ImageURL: "https://cdn/hoa.png",
		}).Return(nil).Once()
		fx.customers.On("Search", mock.Anything, mock.Anything).Return(&shared.Page[partner.Customer]{}, nil).Once()

		result, err := fx.drafts.Submit(fx.ctx, "sess", view.ID)
		require.NoError(t, err)
		assert.False(t, result.Created)
		fx.customers.AssertExpectations(t)
	})
}
