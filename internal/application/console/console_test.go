package console

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bookingops/console/internal/domain/activity"
	"github.com/bookingops/console/internal/domain/catalog"
	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/media"
	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/domain/table"
	"github.com/bookingops/console/internal/infrastructure/cache"
)

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Search(ctx context.Context, req shared.PageRequest) (*shared.Page[catalog.Category], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Page[catalog.Category]), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id string) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, input catalog.CategoryInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, id string, input catalog.CategoryInput) error {
	args := m.Called(ctx, id, input)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockActivityRepository is a mock implementation of activity.Repository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Record(ctx context.Context, e *activity.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockActivityRepository) List(ctx context.Context, req shared.PageRequest) (*shared.Page[activity.Entry], error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Page[activity.Entry]), args.Error(1)
}

type stubUploader struct {
	url string
	err error
}

func (u stubUploader) Upload(_ context.Context, _ string, _ media.File, current []string, multiple bool) ([]string, error) {
	if u.err != nil {
		return current, u.err
	}
	if !multiple {
		return []string{u.url}, nil
	}
	return append(append([]string{}, current...), u.url), nil
}

func categoryColumns() []table.Column[catalog.Category] {
	return []table.Column[catalog.Category]{
		{Key: "name", Render: func(c catalog.Category) table.Cell { return table.Link(c.Name, "/category/"+c.ID) }},
		{Key: "code", Render: func(c catalog.Category) table.Cell { return table.Text(c.Code) }},
	}
}

func categoryForm(_ context.Context, rec *catalog.Category) (*form.Form, error) {
	var c catalog.Category
	if rec != nil {
		c = *rec
	}
	return form.New(
		form.Spec{Label: "Code", Alias: "code", Type: form.TypeText, Value: form.Text(c.Code), Required: true},
		form.Spec{Label: "Name", Alias: "name", Type: form.TypeText, Value: form.Text(c.Name), Required: true},
		form.Spec{Label: "Images", Alias: "imageUrls", Type: form.TypeImage, MultiSelect: true, Value: form.List(c.ImageURLs...)},
	), nil
}

func categoryInput(_ context.Context, f *form.Form) (catalog.CategoryInput, error) {
	s := f.Scope()
	return catalog.CategoryInput{Code: s.Text("code"), Name: s.Text("name"), ImageURLs: s.List("imageUrls")}, nil
}

func newCategoryScreen(repo *MockCategoryRepository) *Resource[catalog.Category] {
	return NewResource[catalog.Category]("category", repo, categoryColumns(), categoryForm,
		WithCreate[catalog.Category](CreateWith[catalog.CategoryInput](repo, categoryInput)),
		WithUpdate[catalog.Category](UpdateWith[catalog.CategoryInput](repo, categoryInput)),
		WithDelete[catalog.Category](repo),
	)
}

func newStore(t *testing.T) *cache.InMemoryStateStore {
	store := cache.NewInMemoryStateStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestResource_List(t *testing.T) {
	repo := new(MockCategoryRepository)
	screen := newCategoryScreen(repo)
	ctx := context.Background()

	repo.On("Search", ctx, shared.PageRequest{Limit: 3, PageNumber: 1, GetAll: true}).Return(&shared.Page[catalog.Category]{
		Nodes: []catalog.Category{
			{ID: "c1", Name: "Cleaning", Code: "CL"},
			{ID: "c2", Name: "Repair", Code: "RP"},
		},
		PageNumber: 1, PageSize: 3, TotalCount: 2,
	}, nil)

	view, err := screen.List(ctx, shared.PageRequest{GetAll: true})
	require.NoError(t, err)
	require.Len(t, view.Table.Rows, 2)
	assert.Equal(t, "name", view.Table.Headers[0].Key)
	assert.Equal(t, "Code", view.Table.Headers[1].Label)
	assert.Equal(t, table.Link("Repair", "/category/c2"), view.Table.Rows[1][0])
	assert.Equal(t, 1, view.TotalPages)
	assert.Equal(t, Capabilities{Create: true, Update: true, Delete: true}, view.Capabilities)
	repo.AssertExpectations(t)
}

func TestResource_Detail(t *testing.T) {
	repo := new(MockCategoryRepository)
	screen := newCategoryScreen(repo)
	ctx := context.Background()

	repo.On("FindByID", ctx, "c1").Return(&catalog.Category{ID: "c1", Name: "Cleaning", Code: "CL"}, nil)

	view, err := screen.Detail(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, view.Fields, 3)
	for _, f := range view.Fields {
		assert.True(t, f.Disabled, f.Alias)
	}
	assert.Equal(t, "Cleaning", view.Fields[1].Value)
}

func TestResource_Unsupported(t *testing.T) {
	repo := new(MockCategoryRepository)
	screen := NewResource[catalog.Category]("category", repo, categoryColumns(), categoryForm)
	ctx := context.Background()

	_, err := screen.BlankForm(ctx)
	assert.True(t, shared.IsCode(err, shared.CodeNotSupported))
	_, err = screen.Create(ctx, form.New())
	assert.True(t, shared.IsCode(err, shared.CodeNotSupported))
	assert.True(t, shared.IsCode(screen.Update(ctx, "c1", form.New()), shared.CodeNotSupported))
	assert.True(t, shared.IsCode(screen.Delete(ctx, "c1"), shared.CodeNotSupported))
	assert.Equal(t, Capabilities{}, screen.Capabilities())
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(newCategoryScreen(new(MockCategoryRepository)))
	_, err := reg.Get("category")
	require.NoError(t, err)
	_, err = reg.Get("planet")
	assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	assert.Equal(t, []string{"category"}, reg.Entities())
}

func TestDraftService_CreateFlow(t *testing.T) {
	repo := new(MockCategoryRepository)
	activityRepo := new(MockActivityRepository)
	store := newStore(t)
	svc := NewDraftService(NewRegistry(newCategoryScreen(repo)), store, time.Hour,
		WithRecorder(NewRecorder(activityRepo)))
	ctx := context.Background()

	view, err := svc.Open(ctx, "sess-1", "category", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"code", "name"}, view.Missing)

	t.Run("submit with missing fields is rejected", func(t *testing.T) {
		_, err := svc.Submit(ctx, "sess-1", view.ID)
		var missing *MissingFieldsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"code", "name"}, missing.Fields)
		assert.ErrorIs(t, err, shared.ErrValidationFailed)
	})

	_, err = svc.Change(ctx, "sess-1", view.ID, form.SetRoot(0, form.Text("CL")))
	require.NoError(t, err)
	changed, err := svc.Change(ctx, "sess-1", view.ID, form.SetRoot(1, form.Text("Cleaning")))
	require.NoError(t, err)
	assert.Empty(t, changed.Missing)

	repo.On("Create", mock.Anything, catalog.CategoryInput{Code: "CL", Name: "Cleaning"}).Return("c9", nil).Once()
	repo.On("Search", mock.Anything, shared.PageRequest{Limit: 3, PageNumber: 1}).Return(&shared.Page[catalog.Category]{
		Nodes:      []catalog.Category{{ID: "c9", Name: "Cleaning", Code: "CL"}},
		PageNumber: 1, PageSize: 3, TotalCount: 1,
	}, nil).Once()
	activityRepo.On("Record", mock.Anything, mock.MatchedBy(func(e *activity.Entry) bool {
		return e.Entity == "category" && e.EntityID == "c9" && e.Action == activity.ActionCreate
	})).Return(nil).Once()

	result, err := svc.Submit(ctx, "sess-1", view.ID)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, "c9", result.RecordID)
	require.NotNil(t, result.List)
	assert.Len(t, result.List.Table.Rows, 1)

	_, err = svc.Get(ctx, "sess-1", view.ID)
	assert.True(t, shared.IsCode(err, shared.CodeNotFound), "submitted draft is dropped")

	repo.AssertExpectations(t)
	activityRepo.AssertExpectations(t)
}

func TestDraftService_EditFlow(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewDraftService(NewRegistry(newCategoryScreen(repo)), newStore(t), time.Hour)
	ctx := context.Background()

	repo.On("FindByID", mock.Anything, "c1").Return(&catalog.Category{ID: "c1", Name: "Cleaning", Code: "CL"}, nil)
	view, err := svc.Open(ctx, "sess-1", "category", "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", view.RecordID)
	assert.False(t, view.Fields[0].Disabled)

	t.Run("other sessions cannot see the draft", func(t *testing.T) {
		_, err := svc.Get(ctx, "sess-2", view.ID)
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	_, err = svc.Change(ctx, "sess-1", view.ID, form.SetRoot(1, form.Text("Deep Cleaning")))
	require.NoError(t, err)

	repo.On("Update", mock.Anything, "c1", catalog.CategoryInput{Code: "CL", Name: "Deep Cleaning"}).Return(nil).Once()
	repo.On("Search", mock.Anything, mock.Anything).Return(nil, shared.ErrUpstreamUnavailable).Once()

	result, err := svc.Submit(ctx, "sess-1", view.ID)
	require.NoError(t, err, "a failed refetch does not fail the mutation")
	assert.False(t, result.Created)
	assert.Nil(t, result.List)
	repo.AssertExpectations(t)
}

func TestDraftService_MutationFailureKeepsDraft(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewDraftService(NewRegistry(newCategoryScreen(repo)), newStore(t), time.Hour)
	ctx := context.Background()

	view, err := svc.Open(ctx, "sess-1", "category", "")
	require.NoError(t, err)
	_, err = svc.Change(ctx, "sess-1", view.ID, form.SetRoot(0, form.Text("CL")))
	require.NoError(t, err)
	_, err = svc.Change(ctx, "sess-1", view.ID, form.SetRoot(1, form.Text("Cleaning")))
	require.NoError(t, err)

	repo.On("Create", mock.Anything, mock.Anything).Return("", shared.NewDomainError(shared.CodeUpstreamError, "code already used"))
	_, err = svc.Submit(ctx, "sess-1", view.ID)
	assert.True(t, shared.IsCode(err, shared.CodeUpstreamError))

	kept, err := svc.Get(ctx, "sess-1", view.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cleaning", kept.Fields[1].Value)
}

func TestDraftService_Upload(t *testing.T) {
	repo := new(MockCategoryRepository)
	store := newStore(t)
	ctx := context.Background()
	file := media.File{Name: "a.png", ContentType: "image/png", Body: strings.NewReader("png")}

	t.Run("success appends the CDN URL", func(t *testing.T) {
		svc := NewDraftService(NewRegistry(newCategoryScreen(repo)), store, time.Hour,
			WithUploader(stubUploader{url: "https://cdn/x.png"}))
		view, err := svc.Open(ctx, "sess-1", "category", "")
		require.NoError(t, err)

		view, err = svc.Upload(ctx, "sess-1", view.ID, form.Change{Index: 2}, file)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn/x.png"}, view.Fields[2].Value)
	})

	t.Run("failure leaves the list unchanged", func(t *testing.T) {
		svc := NewDraftService(NewRegistry(newCategoryScreen(repo)), store, time.Hour,
			WithUploader(stubUploader{err: shared.NewDomainError(shared.CodeStorageFailed, "denied")}))
		view, err := svc.Open(ctx, "sess-1", "category", "")
		require.NoError(t, err)
		_, err = svc.Change(ctx, "sess-1", view.ID, form.SetRoot(2, form.List("https://cdn/old.png")))
		require.NoError(t, err)

		_, err = svc.Upload(ctx, "sess-1", view.ID, form.Change{Index: 2}, file)
		assert.True(t, shared.IsCode(err, shared.CodeStorageFailed))

		kept, err := svc.Get(ctx, "sess-1", view.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn/old.png"}, kept.Fields[2].Value)
	})

	t.Run("non image field is rejected", func(t *testing.T) {
		svc := NewDraftService(NewRegistry(newCategoryScreen(repo)), store, time.Hour,
			WithUploader(stubUploader{url: "https://cdn/x.png"}))
		view, err := svc.Open(ctx, "sess-1", "category", "")
		require.NoError(t, err)
		_, err = svc.Upload(ctx, "sess-1", view.ID, form.Change{Index: 0}, file)
		assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
	})
}

func TestDraftService_Delete(t *testing.T) {
	repo := new(MockCategoryRepository)
	activityRepo := new(MockActivityRepository)
	svc := NewDraftService(NewRegistry(newCategoryScreen(repo)), newStore(t), time.Hour,
		WithRecorder(NewRecorder(activityRepo)))
	ctx := context.Background()

	repo.On("Delete", ctx, "c1").Return(nil).Once()
	activityRepo.On("Record", ctx, mock.Anything).Return(errors.New("db down")).Once()

	require.NoError(t, svc.Delete(ctx, "category", "c1"), "activity failures are not returned")
	repo.AssertExpectations(t)
	activityRepo.AssertExpectations(t)
}

func TestLookups_Cached(t *testing.T) {
	repo := new(MockCategoryRepository)
	store := newStore(t)
	lookups := NewLookups(LookupSources{Categories: repo}, store, time.Minute)
	ctx := context.Background()

	repo.On("Search", ctx, shared.AllPages()).Return(&shared.Page[catalog.Category]{
		Nodes: []catalog.Category{{ID: "c1", Name: "Cleaning"}},
	}, nil).Twice()

	first, err := lookups.Categories(ctx)
	require.NoError(t, err)
	second, err := lookups.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "Search", 1)

	lookups.Invalidate(ctx, LookupCategories)
	_, err = lookups.Categories(ctx)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Search", 2)

	_, err = lookups.Workers(ctx)
	assert.True(t, shared.IsCode(err, shared.CodeNotSupported))
}

func TestChoices(t *testing.T) {
	items := []catalog.Item{{ID: "i1", Name: "Sofa", CategoryID: "c1"}, {ID: "i2", Name: "Fridge", CategoryID: "c2"}}
	assert.Equal(t, []form.Choice{{ID: "i1", Name: "Sofa"}}, ItemChoices(items, "c1"))
	assert.Len(t, ItemChoices(items, ""), 2)

	type status string
	assert.Equal(t, []form.Choice{{ID: "InProgress", Name: "In Progress"}}, EnumChoices([]status{"InProgress"}))
}

func TestFieldReader(t *testing.T) {
	f := form.New(
		form.Spec{Alias: "price", Type: form.TypeNumber, Value: form.Text("12.50")},
		form.Spec{Alias: "qty", Type: form.TypeNumber, Value: form.Text("abc")},
		form.Spec{Alias: "empty", Type: form.TypeNumber},
		form.Spec{Alias: "day", Type: form.TypeDate, Value: form.Text("2026-03-01")},
	)
	r := Read(f.Scope())

	assert.Equal(t, "12.5", r.Decimal("price").String())
	assert.True(t, r.Decimal("empty").IsZero(), "empty reads as zero")
	require.NotNil(t, r.Time("day"))
	require.NoError(t, r.Err())

	assert.Equal(t, 0, r.Int("qty"))
	err := r.Err()
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeInvalidInput))
	assert.Contains(t, err.Error(), "qty")
}
