package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/interfaces/http/dto"
)

// ScreenHandler serves list and detail screens of every registered entity
type ScreenHandler struct {
	BaseHandler
	screens *console.Registry
	drafts  *console.DraftService
	getAll  bool
}

// NewScreenHandler creates a new ScreenHandler. getAll is forwarded on every
// list request; the booking API ignores paging when it is set.
func NewScreenHandler(screens *console.Registry, drafts *console.DraftService, getAll bool) *ScreenHandler {
	return &ScreenHandler{screens: screens, drafts: drafts, getAll: getAll}
}

// EntityInfo describes one screen for the navigation menu
type EntityInfo struct {
	Entity       string               `json:"entity"`
	Capabilities console.Capabilities `json:"capabilities"`
}

// Entities lists every registered screen
// @Summary      List console entities
// @Tags         screens
// @Produce      json
// @Router       /entities [get]
func (h *ScreenHandler) Entities(c *gin.Context) {
	names := h.screens.Entities()
	out := make([]EntityInfo, 0, len(names))
	for _, name := range names {
		s, err := h.screens.Get(name)
		if err != nil {
			continue
		}
		out = append(out, EntityInfo{Entity: name, Capabilities: s.Capabilities()})
	}
	h.Success(c, out)
}

// List renders one page of an entity's table
// @Summary      List entity records
// @Tags         screens
// @Produce      json
// @Param        entity path  string true  "Entity name"
// @Param        page   query int    false "Page number"
// @Param        limit  query int    false "Page size"
// @Param        sort   query string false "asc or desc"
// @Router       /entities/{entity} [get]
func (h *ScreenHandler) List(c *gin.Context) {
	screen, err := h.screens.Get(c.Param("entity"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "Invalid paging parameters")
		return
	}

	view, err := screen.List(c.Request.Context(), h.pageRequest(q))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, view, int64(view.TotalCount), view.PageNumber, view.PageSize)
}

func (h *ScreenHandler) pageRequest(q dto.PageQuery) shared.PageRequest {
	req := shared.PageRequest{
		Limit:      q.Limit,
		PageNumber: q.Page,
		SortOrder:  shared.SortDesc,
		GetAll:     h.getAll,
	}
	if strings.EqualFold(q.Sort, "asc") {
		req.SortOrder = shared.SortAsc
	}
	return req
}

// Detail renders a record as a read-only form
// @Summary      Get entity record
// @Tags         screens
// @Produce      json
// @Router       /entities/{entity}/{id} [get]
func (h *ScreenHandler) Detail(c *gin.Context) {
	screen, err := h.screens.Get(c.Param("entity"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	view, err := screen.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Delete removes a record through the booking API
// @Summary      Delete entity record
// @Tags         screens
// @Router       /entities/{entity}/{id} [delete]
func (h *ScreenHandler) Delete(c *gin.Context) {
	if err := h.drafts.Delete(c.Request.Context(), c.Param("entity"), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
