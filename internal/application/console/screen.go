// Package console holds the screen framework shared by every entity: list
// tables, read-only detail forms, server-held drafts and cached lookups.
package console

import (
	"context"

	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/domain/table"
)

// Capabilities tells the client which writes a screen supports
type Capabilities struct {
	Create bool `json:"create"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// ListView is one rendered page of a list screen
type ListView struct {
	Entity       string       `json:"entity"`
	Table        table.Table  `json:"table"`
	PageNumber   int          `json:"pageNumber"`
	PageSize     int          `json:"pageSize"`
	TotalCount   int          `json:"totalCount"`
	TotalPages   int          `json:"totalPages"`
	Capabilities Capabilities `json:"capabilities"`
}

// DetailView is a record rendered as a read-only form
type DetailView struct {
	Entity       string            `json:"entity"`
	ID           string            `json:"id"`
	Fields       []form.Descriptor `json:"fields"`
	Record       any               `json:"record"`
	Capabilities Capabilities      `json:"capabilities"`
}

// Screen is the list, detail and edit surface of one entity
type Screen interface {
	Entity() string
	Capabilities() Capabilities
	List(ctx context.Context, req shared.PageRequest) (*ListView, error)
	Detail(ctx context.Context, id string) (*DetailView, error)
	// BlankForm builds the create form
	BlankForm(ctx context.Context) (*form.Form, error)
	// RecordForm builds the edit form of an existing record
	RecordForm(ctx context.Context, id string) (*form.Form, error)
	// Changed applies entity rules after a change touched ref
	Changed(ctx context.Context, f *form.Form, ref form.Ref) error
	Create(ctx context.Context, f *form.Form) (string, error)
	Update(ctx context.Context, id string, f *form.Form) error
	Delete(ctx context.Context, id string) error
}

// FormBuilder builds a form for a record; rec is nil for the create form
type FormBuilder[T any] func(ctx context.Context, rec *T) (*form.Form, error)

// Rules re-derives dependent fields after a change
type Rules func(ctx context.Context, f *form.Form, ref form.Ref) error

// Resource is a Screen over a remote collection of T
type Resource[T any] struct {
	entity   string
	reader   shared.Reader[T]
	columns  []table.Column[T]
	pageSize int
	build    FormBuilder[T]
	rules    Rules
	create   func(ctx context.Context, f *form.Form) (string, error)
	update   func(ctx context.Context, id string, f *form.Form) error
	remove   func(ctx context.Context, id string) error
}

// ResourceOption configures a Resource
type ResourceOption[T any] func(*Resource[T])

// WithPageSize sets the default page size of the list
func WithPageSize[T any](n int) ResourceOption[T] {
	return func(r *Resource[T]) {
		if n > 0 {
			r.pageSize = n
		}
	}
}

// WithRules sets the rules run after every draft change
func WithRules[T any](rules Rules) ResourceOption[T] {
	return func(r *Resource[T]) {
		r.rules = rules
	}
}

// WithCreate enables record creation
func WithCreate[T any](create func(ctx context.Context, f *form.Form) (string, error)) ResourceOption[T] {
	return func(r *Resource[T]) {
		r.create = create
	}
}

// WithUpdate enables record updates
func WithUpdate[T any](update func(ctx context.Context, id string, f *form.Form) error) ResourceOption[T] {
	return func(r *Resource[T]) {
		r.update = update
	}
}

// WithDelete enables record deletion
func WithDelete[T any](d shared.Deleter) ResourceOption[T] {
	return func(r *Resource[T]) {
		r.remove = d.Delete
	}
}

// NewResource creates a read-only screen; options enable writes
func NewResource[T any](entity string, reader shared.Reader[T], columns []table.Column[T], build FormBuilder[T], opts ...ResourceOption[T]) *Resource[T] {
	r := &Resource[T]{
		entity:   entity,
		reader:   reader,
		columns:  columns,
		pageSize: 3,
		build:    build,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateWith adapts a creator and a form reader into a create function
func CreateWith[In any](c shared.Creator[In], input func(ctx context.Context, f *form.Form) (In, error)) func(ctx context.Context, f *form.Form) (string, error) {
	return func(ctx context.Context, f *form.Form) (string, error) {
		in, err := input(ctx, f)
		if err != nil {
			return "", err
		}
		return c.Create(ctx, in)
	}
}

// UpdateWith adapts an updater and a form reader into an update function
func UpdateWith[In any](u shared.Updater[In], input func(ctx context.Context, f *form.Form) (In, error)) func(ctx context.Context, id string, f *form.Form) error {
	return func(ctx context.Context, id string, f *form.Form) error {
		in, err := input(ctx, f)
		if err != nil {
			return err
		}
		return u.Update(ctx, id, in)
	}
}

// Entity returns the entity name used in routes
func (r *Resource[T]) Entity() string {
	return r.entity
}

// Capabilities reports which writes are enabled
func (r *Resource[T]) Capabilities() Capabilities {
	return Capabilities{
		Create: r.create != nil,
		Update: r.update != nil,
		Delete: r.remove != nil,
	}
}

// List fetches one page and renders it through the column descriptors
func (r *Resource[T]) List(ctx context.Context, req shared.PageRequest) (*ListView, error) {
	req = req.Normalize(r.pageSize)
	page, err := r.reader.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	return &ListView{
		Entity:       r.entity,
		Table:        table.Render(page.Nodes, r.columns),
		PageNumber:   page.PageNumber,
		PageSize:     page.PageSize,
		TotalCount:   page.TotalCount,
		TotalPages:   page.TotalPages(),
		Capabilities: r.Capabilities(),
	}, nil
}

// Detail fetches a record and renders it as a disabled form
func (r *Resource[T]) Detail(ctx context.Context, id string) (*DetailView, error) {
	rec, err := r.reader.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f, err := r.build(ctx, rec)
	if err != nil {
		return nil, err
	}
	f.SetDisabled(true)
	return &DetailView{
		Entity:       r.entity,
		ID:           id,
		Fields:       f.Descriptors(),
		Record:       rec,
		Capabilities: r.Capabilities(),
	}, nil
}

// BlankForm builds the create form
func (r *Resource[T]) BlankForm(ctx context.Context) (*form.Form, error) {
	if r.create == nil {
		return nil, r.unsupported("create")
	}
	return r.build(ctx, nil)
}

// RecordForm fetches a record and builds its edit form
func (r *Resource[T]) RecordForm(ctx context.Context, id string) (*form.Form, error) {
	if r.update == nil {
		return nil, r.unsupported("update")
	}
	rec, err := r.reader.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.build(ctx, rec)
}

// Changed runs the entity rules, if any
func (r *Resource[T]) Changed(ctx context.Context, f *form.Form, ref form.Ref) error {
	if r.rules == nil {
		return nil
	}
	return r.rules(ctx, f, ref)
}

// Create issues the create mutation built from the form
func (r *Resource[T]) Create(ctx context.Context, f *form.Form) (string, error) {
	if r.create == nil {
		return "", r.unsupported("create")
	}
	return r.create(ctx, f)
}

// Update issues the update mutation built from the form
func (r *Resource[T]) Update(ctx context.Context, id string, f *form.Form) error {
	if r.update == nil {
		return r.unsupported("update")
	}
	return r.update(ctx, id, f)
}

// Delete issues the delete mutation
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if r.remove == nil {
		return r.unsupported("delete")
	}
	return r.remove(ctx, id)
}

func (r *Resource[T]) unsupported(op string) error {
	return shared.Errorf(shared.CodeNotSupported, "%s is not supported for %s records", op, r.entity)
}
