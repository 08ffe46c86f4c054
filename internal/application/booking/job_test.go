package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/booking"
	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/shared"
)

const (
	idxCustomerName = iota
	idxPhone
	idxAddress
	idxNote
	idxStartDate
	idxItems
)

func TestJobScreen_Create(t *testing.T) {
	fx := newFixture(t)
	drafts := console.NewDraftService(console.NewRegistry(NewJobScreen(fx.jobs, fx.lookups, 3)), fx.store, time.Hour)

	view, err := drafts.Open(fx.ctx, "sess", EntityJob, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"customerName", "phoneNumber", "address", "startDate", "items"}, view.Missing)

	change := func(c form.Change) {
		t.Helper()
		view, err = drafts.Change(fx.ctx, "sess", view.ID, c)
		require.NoError(t, err)
	}
	change(form.SetRoot(idxCustomerName, form.Text("Hoa Nguyen")))
	change(form.SetRoot(idxPhone, form.Text("(555) 222-3333")))
	change(form.SetRoot(idxAddress, form.Text("9 River Rd")))
	change(form.SetRoot(idxStartDate, form.Text("2026-11-05T08:00")))
	change(form.Change{Index: idxItems, Action: form.ActionAddRow})
	group := view.Fields[idxItems].GroupID
	change(form.SetInGroup(group, 0, 0, form.Text("i3")))
	change(form.Change{Index: idxItems, Action: form.ActionAddRow})

	rows := view.Fields[idxItems].Rows
	assert.Len(t, rows[0][0].Choices, 3, "the first item picks the category")
	assert.Equal(t, []form.Choice{{ID: "i3", Name: "Fridge"}}, rows[1][0].Choices, "later items stay in the category")

	change(form.Change{GroupID: group, Action: form.ActionRemoveRow, SubIndex: form.At(1)})
	change(form.Change{GroupID: view.Fields[idxItems].Rows[0][2].GroupID, Action: form.ActionAddRow})
	options := view.Fields[idxItems].Rows[0][2]
	assert.Equal(t, []form.Choice{{ID: "o3", Name: "Spare part"}}, options.Rows[0][0].Choices)
	change(form.SetInGroup(options.GroupID, 0, 0, form.Text("o3")))
	change(form.SetInGroup(options.GroupID, 0, 1, form.Text("2")))
	require.Empty(t, view.Missing)

	start := time.Date(2026, 11, 5, 8, 0, 0, 0, time.UTC)
	fx.jobs.On("Create", mock.Anything, booking.JobCreateInput{
		CustomerName: "Hoa Nguyen",
		PhoneNumber:  "(555) 222-3333",
		Address:      "9 River Rd",
		StartDate:    &start,
		CategoryID:   "c2",
		Items: []booking.JobItemInput{{
			RefID: "i3", Name: "Fridge", Quantity: 1,
			Options: []booking.JobItemOptionInput{{RefID: "o3", Name: "Spare part", Quantity: 2}},
		}},
	}).Return("job-9", nil).Once()
	fx.jobs.On("Search", mock.Anything, shared.PageRequest{Limit: 3, PageNumber: 1}).Return(pageOf(booking.Job{ID: "job-9"}), nil).Once()

	result, err := drafts.Submit(fx.ctx, "sess", view.ID)
	require.NoError(t, err)
	assert.Equal(t, "job-9", result.RecordID)
	require.NotNil(t, result.List)
	assert.Len(t, result.List.Table.Rows, 1)
	fx.jobs.AssertExpectations(t)
}

func TestJobScreen_FirstItemChangeClearsOtherCategories(t *testing.T) {
	fx := newFixture(t)
	drafts := console.NewDraftService(console.NewRegistry(NewJobScreen(fx.jobs, fx.lookups, 3)), fx.store, time.Hour)

	view, err := drafts.Open(fx.ctx, "sess", EntityJob, "")
	require.NoError(t, err)
	for _, c := range []form.Change{
		{Index: idxItems, Action: form.ActionAddRow},
		{Index: idxItems, Action: form.ActionAddRow},
	} {
		view, err = drafts.Change(fx.ctx, "sess", view.ID, c)
		require.NoError(t, err)
	}
	group := view.Fields[idxItems].GroupID
	for _, c := range []form.Change{
		form.SetInGroup(group, 0, 0, form.Text("i1")),
		form.SetInGroup(group, 1, 0, form.Text("i2")),
		form.SetInGroup(group, 0, 0, form.Text("i3")),
	} {
		view, err = drafts.Change(fx.ctx, "sess", view.ID, c)
		require.NoError(t, err)
	}

	assert.Equal(t, "i3", view.Fields[idxItems].Rows[0][0].Value)
	assert.Equal(t, "", view.Fields[idxItems].Rows[1][0].Value)
}

func TestJobScreen_DetailAndCapabilities(t *testing.T) {
	fx := newFixture(t)
	fx.withJob()
	screen := NewJobScreen(fx.jobs, fx.lookups, 3)

	assert.Equal(t, console.Capabilities{Create: true, Delete: true}, screen.Capabilities())
	assert.True(t, shared.IsCode(screen.Update(fx.ctx, "job-1", form.New()), shared.CodeNotSupported))

	detail, err := screen.Detail(fx.ctx, "job-1")
	require.NoError(t, err)
	byAlias := map[string]any{}
	for _, f := range detail.Fields {
		byAlias[f.Alias] = f.Value
		assert.True(t, f.Disabled, f.Alias)
	}
	assert.Equal(t, "SPRING10", byAlias["campaignCode"])
	assert.Equal(t, "0.00", byAlias["finalTotalPrice"])
}
