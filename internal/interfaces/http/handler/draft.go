package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bookingops/console/internal/application/console"
)

// DraftHandler serves create and edit forms held server side per session
type DraftHandler struct {
	BaseHandler
	drafts *console.DraftService
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(drafts *console.DraftService) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

// OpenDraftRequest opens a create form, or an edit form when RecordID is set
type OpenDraftRequest struct {
	Entity   string `json:"entity" binding:"required"`
	RecordID string `json:"recordId"`
}

// Open starts a draft
// @Summary      Open a create or edit form
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        request body OpenDraftRequest true "Entity and optional record"
// @Router       /drafts [post]
func (h *DraftHandler) Open(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	var req OpenDraftRequest
	if !h.bindJSON(c, &req) {
		return
	}
	view, err := h.drafts.Open(c.Request.Context(), owner, req.Entity, req.RecordID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, view)
}

// Get returns the current state of a draft
// @Summary      Get a draft
// @Tags         drafts
// @Router       /drafts/{id} [get]
func (h *DraftHandler) Get(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	view, err := h.drafts.Get(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Change applies one field edit or sub-form row action
// @Summary      Change a draft field
// @Tags         drafts
// @Accept       json
// @Param        request body ChangeRequest true "Field change"
// @Router       /drafts/{id}/changes [post]
func (h *DraftHandler) Change(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	var req ChangeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	change, err := req.change()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	view, err := h.drafts.Change(c.Request.Context(), owner, c.Param("id"), change)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Upload stores an image and writes its URL into an image field
// @Summary      Upload an image into a draft field
// @Tags         drafts
// @Accept       multipart/form-data
// @Router       /drafts/{id}/uploads [post]
func (h *DraftHandler) Upload(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	change, file, closeFile, ok := h.uploadRequest(c)
	if !ok {
		return
	}
	defer closeFile()

	view, err := h.drafts.Upload(c.Request.Context(), owner, c.Param("id"), change, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Submit creates or updates the record. Missing required fields answer 400
// with one detail per field path.
// @Summary      Submit a draft
// @Tags         drafts
// @Router       /drafts/{id}/submit [post]
func (h *DraftHandler) Submit(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	result, err := h.drafts.Submit(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Created {
		h.Created(c, result)
		return
	}
	h.Success(c, result)
}

// Discard drops a draft without saving
// @Summary      Discard a draft
// @Tags         drafts
// @Router       /drafts/{id} [delete]
func (h *DraftHandler) Discard(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	if err := h.drafts.Discard(c.Request.Context(), owner, c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
