package booking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditSession_MutualExclusion(t *testing.T) {
	for _, active := range Sections {
		for _, other := range Sections {
			if active == other {
				continue
			}
			t.Run(string(active)+" blocks "+string(other), func(t *testing.T) {
				s := NewEditSession("job-1")
				require.NoError(t, s.Enter(active))

				err := s.Enter(other)

				assert.ErrorIs(t, err, ErrSectionBusy)
				assert.False(t, s.IsEditing(other))
				assert.True(t, s.IsEditing(active))
			})
		}
	}
}

func TestEditSession_ItemsRejectedWhileStatusEditing(t *testing.T) {
	s := NewEditSession("job-1")
	require.NoError(t, s.Enter(SectionStatus))

	assert.False(t, s.CanEnter(SectionItems))
	assert.ErrorIs(t, s.Enter(SectionItems), ErrSectionBusy)

	s.Leave(SectionStatus)
	assert.NoError(t, s.Enter(SectionItems))
	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, SectionItems, active)
}

func TestEditSession_ReenterIsNoop(t *testing.T) {
	s := NewEditSession("job-1")
	require.NoError(t, s.Enter(SectionWorker))
	assert.NoError(t, s.Enter(SectionWorker))
}

func TestEditSession_Quote(t *testing.T) {
	quote := &PreBooking{FinalTotalPrice: decimal.NewFromInt(90)}

	t.Run("only the items section holds quotes", func(t *testing.T) {
		s := NewEditSession("job-1")
		require.NoError(t, s.Enter(SectionGeneral))
		assert.ErrorIs(t, s.SetQuote(quote), ErrQuoteNotAllowed)
	})

	t.Run("pending quote lifecycle", func(t *testing.T) {
		s := NewEditSession("job-1")
		require.NoError(t, s.Enter(SectionItems))

		_, err := s.PendingQuote()
		assert.ErrorIs(t, err, ErrNoPendingQuote)

		require.NoError(t, s.SetQuote(quote))
		got, err := s.PendingQuote()
		require.NoError(t, err)
		assert.Same(t, quote, got)

		s.DropQuote()
		assert.True(t, s.IsEditing(SectionItems))
		_, err = s.PendingQuote()
		assert.ErrorIs(t, err, ErrNoPendingQuote)
	})

	t.Run("leaving items drops the quote", func(t *testing.T) {
		s := NewEditSession("job-1")
		require.NoError(t, s.Enter(SectionItems))
		require.NoError(t, s.SetQuote(quote))

		s.Leave(SectionItems)

		_, err := s.PendingQuote()
		assert.ErrorIs(t, err, ErrNotEditing)
		assert.Nil(t, s.Quote)
	})
}

func TestJob_CampaignCode(t *testing.T) {
	job := &Job{AppliedCampaigns: []AppliedCampaign{
		{Code: "SUMMER", Type: "Code"},
		{Code: "cat-1", Type: "Category"},
		{Code: "BILL10", Type: "Bill"},
	}}
	assert.Equal(t, "SUMMER, BILL10", job.CampaignCode())
	assert.Equal(t, "", (&Job{}).CampaignCode())
}

func TestParseSection(t *testing.T) {
	s, err := ParseSection("items")
	require.NoError(t, err)
	assert.Equal(t, SectionItems, s)

	_, err = ParseSection("billing")
	assert.Error(t, err)
}

func TestPreBooking_ItemsUpdateKeepsServerAmounts(t *testing.T) {
	quote := &PreBooking{
		TotalPrice:         decimal.RequireFromString("120.50"),
		TotalDiscountPrice: decimal.RequireFromString("20.25"),
		FinalTotalPrice:    decimal.RequireFromString("99.99"),
		TotalEstTime:       45,
		Items: []JobItem{{
			RefID: "item-1", Name: "Cleaning", Quantity: 2,
			Price: decimal.NewFromInt(60), FinalPrice: decimal.RequireFromString("49.995"),
		}},
	}

	in := quote.ItemsUpdate()

	assert.True(t, in.FinalTotalPrice.Equal(quote.FinalTotalPrice))
	assert.True(t, in.TotalDiscountPrice.Equal(quote.TotalDiscountPrice))
	assert.True(t, in.TotalPrice.Equal(quote.TotalPrice))
	assert.Equal(t, quote.Items, in.Items)
}
