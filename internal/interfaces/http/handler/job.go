package handler

import (
	"github.com/gin-gonic/gin"

	appbooking "github.com/bookingops/console/internal/application/booking"
	"github.com/bookingops/console/internal/domain/booking"
)

// JobHandler serves the sectioned job editor and the pricing preview
type JobHandler struct {
	BaseHandler
	editor *appbooking.JobEditor
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(editor *appbooking.JobEditor) *JobHandler {
	return &JobHandler{editor: editor}
}

// Open loads the job with every section in view mode
// @Summary      Open the job editor
// @Tags         jobs
// @Router       /jobs/{id}/editor [get]
func (h *JobHandler) Open(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	view, err := h.editor.Open(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// section resolves the :section path parameter
func (h *JobHandler) section(c *gin.Context) (booking.Section, bool) {
	sec, err := booking.ParseSection(c.Param("section"))
	if err != nil {
		h.HandleError(c, err)
		return "", false
	}
	return sec, true
}

// Enter switches a section into edit mode
// @Summary      Edit a job section
// @Tags         jobs
// @Router       /jobs/{id}/sections/{section} [post]
func (h *JobHandler) Enter(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	sec, ok := h.section(c)
	if !ok {
		return
	}
	view, err := h.editor.Enter(c.Request.Context(), owner, c.Param("id"), sec)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Change edits a field of the section being edited
// @Summary      Change a job section field
// @Tags         jobs
// @Param        request body ChangeRequest true "Field change"
// @Router       /jobs/{id}/sections/{section}/changes [post]
func (h *JobHandler) Change(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	sec, ok := h.section(c)
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
	view, err := h.editor.Change(c.Request.Context(), owner, c.Param("id"), sec, change)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Upload stores an image into an image field of the section
// @Summary      Upload an image into a job section
// @Tags         jobs
// @Accept       multipart/form-data
// @Router       /jobs/{id}/sections/{section}/uploads [post]
func (h *JobHandler) Upload(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	sec, ok := h.section(c)
	if !ok {
		return
	}
	change, file, closeFile, ok := h.uploadRequest(c)
	if !ok {
		return
	}
	defer closeFile()

	view, err := h.editor.Upload(c.Request.Context(), owner, c.Param("id"), sec, change, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Save submits the section. Saving the items section returns a pricing
// preview in Quote instead of updating the job.
// @Summary      Save a job section
// @Tags         jobs
// @Router       /jobs/{id}/sections/{section}/save [post]
func (h *JobHandler) Save(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	sec, ok := h.section(c)
	if !ok {
		return
	}
	view, err := h.editor.Save(c.Request.Context(), owner, c.Param("id"), sec)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Cancel leaves edit mode without saving
// @Summary      Cancel a job section edit
// @Tags         jobs
// @Router       /jobs/{id}/sections/{section} [delete]
func (h *JobHandler) Cancel(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	sec, ok := h.section(c)
	if !ok {
		return
	}
	view, err := h.editor.Cancel(c.Request.Context(), owner, c.Param("id"), sec)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Confirm applies the pending pricing preview to the job
// @Summary      Confirm job pricing
// @Tags         jobs
// @Router       /jobs/{id}/pricing/confirm [post]
func (h *JobHandler) Confirm(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	view, err := h.editor.Confirm(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Dismiss drops the pending pricing preview and keeps items in edit mode
// @Summary      Dismiss job pricing
// @Tags         jobs
// @Router       /jobs/{id}/pricing [delete]
func (h *JobHandler) Dismiss(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	view, err := h.editor.Dismiss(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}
