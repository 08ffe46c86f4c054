package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookingops/console/internal/domain/activity"
	"github.com/bookingops/console/internal/domain/shared"
)

type activityLog struct {
	entries []activity.Entry
	last    shared.PageRequest
	err     error
}

func (l *activityLog) Record(_ context.Context, e *activity.Entry) error {
	l.entries = append(l.entries, *e)
	return nil
}

func (l *activityLog) List(_ context.Context, req shared.PageRequest) (*shared.Page[activity.Entry], error) {
	l.last = req
	if l.err != nil {
		return nil, l.err
	}
	return &shared.Page[activity.Entry]{
		Nodes:      l.entries,
		PageNumber: req.PageNumber,
		PageSize:   req.Limit,
		TotalCount: len(l.entries),
	}, nil
}

func TestActivityHandler_List(t *testing.T) {
	f := newFixture(t)
	log := &activityLog{entries: []activity.Entry{
		{ID: "a2", Entity: "campaign", EntityID: "c1", Action: activity.ActionUpdate, UserID: "admin-1"},
		{ID: "a1", Entity: "campaign", EntityID: "c1", Action: activity.ActionCreate, UserID: "admin-1"},
	}}
	f.api.GET("/activity", NewActivityHandler(log).List)

	t.Run("newest first by default", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/activity?page=2&limit=10", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var entries []activity.Entry
		resp := decode(t, w, &entries)
		require.Len(t, entries, 2)
		assert.Equal(t, activity.ActionUpdate, entries[0].Action)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(2), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, shared.SortDesc, log.last.SortOrder)
	})

	t.Run("ascending on request", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/activity?sort=asc", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, shared.SortAsc, log.last.SortOrder)
	})

	t.Run("rejects an oversized page", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/activity?limit=500", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("repository failure", func(t *testing.T) {
		log.err = errors.New("database is locked")
		defer func() { log.err = nil }()
		w := f.do(http.MethodGet, "/api/v1/activity", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
