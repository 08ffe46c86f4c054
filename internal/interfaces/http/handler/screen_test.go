package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/interfaces/http/dto"
)

func screenFixture(t *testing.T, getAll bool, names ...string) *fixture {
	f := newFixture(t, names...)
	h := NewScreenHandler(f.screens, f.drafts, getAll)
	f.api.GET("/entities", h.Entities)
	f.api.GET("/entities/:entity", h.List)
	f.api.GET("/entities/:entity/:id", h.Detail)
	f.api.DELETE("/entities/:entity/:id", h.Delete)
	return f
}

func TestScreenHandler_Entities(t *testing.T) {
	f := screenFixture(t, false)

	w := f.do(http.MethodGet, "/api/v1/entities", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out []EntityInfo
	decode(t, w, &out)
	require.Len(t, out, 1)
	assert.Equal(t, "widget", out[0].Entity)
	assert.Equal(t, console.Capabilities{Create: true, Delete: true}, out[0].Capabilities)
}

func TestScreenHandler_List(t *testing.T) {
	f := screenFixture(t, false, "Alpha", "Bravo", "Charlie", "Delta")

	t.Run("default page size and newest first", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/entities/widget", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var view console.ListView
		resp := decode(t, w, &view)
		require.Len(t, view.Table.Rows, 3)
		assert.Equal(t, "Delta", view.Table.Rows[0][0].Text)
		assert.Equal(t, "/widget/w-4", view.Table.Rows[0][0].Href)
		assert.Equal(t, int64(4), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.TotalPages)
	})

	t.Run("explicit page and ascending sort", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/entities/widget?page=2&limit=2&sort=asc", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var view console.ListView
		decode(t, w, &view)
		require.Len(t, view.Table.Rows, 2)
		assert.Equal(t, "Charlie", view.Table.Rows[0][0].Text)
		assert.Equal(t, 2, view.PageNumber)
	})

	t.Run("invalid paging", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/entities/widget?limit=1000", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown entity", func(t *testing.T) {
		w := f.do(http.MethodGet, "/api/v1/entities/spaceship", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestScreenHandler_List_GetAll(t *testing.T) {
	f := screenFixture(t, true, "Alpha", "Bravo", "Charlie", "Delta")

	w := f.do(http.MethodGet, "/api/v1/entities/widget", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view console.ListView
	decode(t, w, &view)
	assert.Len(t, view.Table.Rows, 4, "the booking API ignores paging when getAll is set")
}

func TestScreenHandler_DetailAndDelete(t *testing.T) {
	f := screenFixture(t, false, "Alpha")

	w := f.do(http.MethodGet, "/api/v1/entities/widget/w-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view console.DetailView
	decode(t, w, &view)
	require.Len(t, view.Fields, 2)
	assert.Equal(t, "Alpha", view.Fields[0].Value)
	assert.True(t, view.Fields[0].Disabled)

	w = f.do(http.MethodDelete, "/api/v1/entities/widget/w-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(http.MethodGet, "/api/v1/entities/widget/w-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decode(t, w, nil)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}
