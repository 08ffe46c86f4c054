package handler

import (
	"encoding/json"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/media"
)

// ChangeRequest addresses one field of a form. Root fields use Index alone;
// sub-form fields use GroupID, SubIndex (the row) and Index (the field in the
// row). Action is empty for a value change, "addSub" or "delSub" for rows.
type ChangeRequest struct {
	Index    int             `json:"index" binding:"gte=0"`
	Action   string          `json:"action"`
	GroupID  string          `json:"groupId"`
	SubIndex *int            `json:"subIndex" binding:"omitempty,gte=0"`
	Value    json.RawMessage `json:"value"`
}

func (r ChangeRequest) change() (form.Change, error) {
	action, err := form.ParseAction(r.Action)
	if err != nil {
		return form.Change{}, err
	}
	value, err := form.ParseValue(r.Value)
	if err != nil {
		return form.Change{}, err
	}
	return form.Change{
		Value:    value,
		Index:    r.Index,
		Action:   action,
		SubIndex: r.SubIndex,
		GroupID:  r.GroupID,
	}, nil
}

// maxUploadMemory bounds the in-memory part of a parsed multipart form
const maxUploadMemory = 8 << 20

// uploadRequest reads a multipart upload: the image in "file" plus the
// target field as "index", "groupId" and "subIndex" form values.
func (h *BaseHandler) uploadRequest(c *gin.Context) (form.Change, media.File, func(), bool) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		h.BadRequest(c, "Expected a multipart form")
		return form.Change{}, media.File{}, nil, false
	}

	var ch form.Change
	var err error
	if v := c.PostForm("index"); v != "" {
		if ch.Index, err = strconv.Atoi(v); err != nil || ch.Index < 0 {
			h.BadRequest(c, "index must be a non-negative integer")
			return form.Change{}, media.File{}, nil, false
		}
	}
	ch.GroupID = c.PostForm("groupId")
	if v := c.PostForm("subIndex"); v != "" {
		row, err := strconv.Atoi(v)
		if err != nil || row < 0 {
			h.BadRequest(c, "subIndex must be a non-negative integer")
			return form.Change{}, media.File{}, nil, false
		}
		ch.SubIndex = form.At(row)
	}

	file, closeFile, ok := h.formFile(c)
	if !ok {
		return form.Change{}, media.File{}, nil, false
	}
	return ch, file, closeFile, true
}

// formFile opens the "file" part of a multipart request
func (h *BaseHandler) formFile(c *gin.Context) (media.File, func(), bool) {
	header, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return media.File{}, nil, false
	}
	body, err := header.Open()
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return media.File{}, nil, false
	}
	return media.File{
		Name:        header.Filename,
		ContentType: contentType(header),
		Body:        body,
	}, func() { _ = body.Close() }, true
}

func contentType(h *multipart.FileHeader) string {
	if ct := h.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
