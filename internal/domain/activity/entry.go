// Package activity records the mutations console operators perform.
package activity

import (
	"context"
	"time"

	"github.com/bookingops/console/internal/domain/shared"
)

// Action is the kind of mutation recorded
type Action string

const (
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
	ActionStatusChange Action = "status_change"
	ActionAssignWorker Action = "assign_worker"
	ActionConfirmItems Action = "confirm_items"
	ActionUploadImage  Action = "upload_image"
	ActionLogin        Action = "login"
	ActionLogout       Action = "logout"
)

// Entry is one recorded mutation
type Entry struct {
	ID        string    `json:"id"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entityId"`
	Action    Action    `json:"action"`
	UserID    string    `json:"userId"`
	RequestID string    `json:"requestId"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository stores activity entries
type Repository interface {
	Record(ctx context.Context, e *Entry) error
	List(ctx context.Context, req shared.PageRequest) (*shared.Page[Entry], error)
}
