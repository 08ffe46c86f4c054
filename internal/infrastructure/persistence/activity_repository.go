package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bookingops/console/internal/domain/activity"
	"github.com/bookingops/console/internal/domain/shared"
)

// ActivityModel is the activity_log row
type ActivityModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Entity    string    `gorm:"type:varchar(64);not null;index:idx_activity_entity,priority:1"`
	EntityID  string    `gorm:"type:varchar(64);index:idx_activity_entity,priority:2"`
	Action    string    `gorm:"type:varchar(32);not null"`
	UserID    string    `gorm:"type:varchar(64);index"`
	RequestID string    `gorm:"type:varchar(64)"`
	Detail    string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ActivityModel) TableName() string {
	return "activity_log"
}

// ToDomain converts the row to a domain entry
func (m *ActivityModel) ToDomain() activity.Entry {
	return activity.Entry{
		ID:        m.ID,
		Entity:    m.Entity,
		EntityID:  m.EntityID,
		Action:    activity.Action(m.Action),
		UserID:    m.UserID,
		RequestID: m.RequestID,
		Detail:    m.Detail,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the row from a domain entry
func (m *ActivityModel) FromDomain(e *activity.Entry) {
	m.ID = e.ID
	m.Entity = e.Entity
	m.EntityID = e.EntityID
	m.Action = string(e.Action)
	m.UserID = e.UserID
	m.RequestID = e.RequestID
	m.Detail = e.Detail
	m.CreatedAt = e.CreatedAt
}

// GormActivityRepository implements activity.Repository using GORM
type GormActivityRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db, now: time.Now}
}

// Record appends an entry, assigning its ID and timestamp when unset
func (r *GormActivityRepository) Record(ctx context.Context, e *activity.Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now().UTC()
	}
	var model ActivityModel
	model.FromDomain(e)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return shared.WrapDomainError(shared.CodeStorageFailed, "failed to record activity", err)
	}
	return nil
}

// List returns entries newest first unless SortOrder is Asc
func (r *GormActivityRepository) List(ctx context.Context, req shared.PageRequest) (*shared.Page[activity.Entry], error) {
	req = req.Normalize(20)

	var total int64
	if err := r.db.WithContext(ctx).Model(&ActivityModel{}).Count(&total).Error; err != nil {
		return nil, shared.WrapDomainError(shared.CodeStorageFailed, "failed to count activity", err)
	}

	order := "created_at DESC, id DESC"
	if req.SortOrder == shared.SortAsc {
		order = "created_at ASC, id ASC"
	}

	query := r.db.WithContext(ctx).Order(order)
	pageSize := req.Limit
	if req.GetAll {
		pageSize = int(total)
	} else {
		query = query.Offset((req.PageNumber - 1) * req.Limit).Limit(req.Limit)
	}

	var rows []ActivityModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, shared.WrapDomainError(shared.CodeStorageFailed, "failed to list activity", err)
	}

	nodes := make([]activity.Entry, len(rows))
	for i := range rows {
		nodes[i] = rows[i].ToDomain()
	}
	return &shared.Page[activity.Entry]{
		Nodes:      nodes,
		PageNumber: req.PageNumber,
		PageSize:   pageSize,
		TotalCount: int(total),
	}, nil
}
