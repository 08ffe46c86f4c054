package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bookingops/console/internal/domain/activity"
	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/interfaces/http/dto"
)

// ActivityHandler lists the console activity log
type ActivityHandler struct {
	BaseHandler
	repo activity.Repository
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(repo activity.Repository) *ActivityHandler {
	return &ActivityHandler{repo: repo}
}

// List godoc
// @Summary      List console activity
// @Description  Newest first unless sort=asc
// @Tags         activity
// @Param        page  query int    false "Page number"
// @Param        limit query int    false "Page size"
// @Param        sort  query string false "asc or desc"
// @Router       /activity [get]
func (h *ActivityHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "Invalid paging parameters")
		return
	}
	req := shared.PageRequest{Limit: q.Limit, PageNumber: q.Page, SortOrder: shared.SortDesc}
	if strings.EqualFold(q.Sort, "asc") {
		req.SortOrder = shared.SortAsc
	}
	page, err := h.repo.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Nodes, int64(page.TotalCount), page.PageNumber, page.PageSize)
}
