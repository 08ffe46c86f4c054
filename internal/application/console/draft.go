package console

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookingops/console/internal/domain/activity"
	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/media"
	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/infrastructure/logger"
	"github.com/bookingops/console/internal/infrastructure/telemetry"
)

// MissingFieldsError is returned when a draft is submitted with required
// fields left empty. It matches shared.ErrValidationFailed.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "required fields are missing: " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Unwrap() error {
	return shared.ErrValidationFailed
}

// Draft is a form being edited on behalf of one console session
type Draft struct {
	ID        string     `json:"id"`
	Entity    string     `json:"entity"`
	RecordID  string     `json:"recordId,omitempty"`
	Form      *form.Form `json:"form"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// DraftView is the render-ready view of a draft
type DraftView struct {
	ID       string            `json:"id"`
	Entity   string            `json:"entity"`
	RecordID string            `json:"recordId,omitempty"`
	Fields   []form.Descriptor `json:"fields"`
	Missing  []string          `json:"missing"`
}

// View renders the draft
func (d *Draft) View() *DraftView {
	missing := d.Form.Missing()
	if missing == nil {
		missing = []string{}
	}
	return &DraftView{
		ID:       d.ID,
		Entity:   d.Entity,
		RecordID: d.RecordID,
		Fields:   d.Form.Descriptors(),
		Missing:  missing,
	}
}

// SubmitResult is the outcome of a submitted draft. List is the refetched
// first page of the entity, nil when the refetch failed.
type SubmitResult struct {
	Entity   string    `json:"entity"`
	RecordID string    `json:"recordId"`
	Created  bool      `json:"created"`
	List     *ListView `json:"list,omitempty"`
}

// Uploader sends an image to storage and returns the field's new URL list
type Uploader interface {
	Upload(ctx context.Context, target string, file media.File, current []string, multiple bool) ([]string, error)
}

// DraftService keeps drafts in the state store and turns them into mutations.
// Concurrent edits of one draft are last-writer-wins.
type DraftService struct {
	screens  *Registry
	state    shared.StateStore
	ttl      time.Duration
	lookups  *Lookups
	recorder *Recorder
	metrics  *telemetry.ConsoleMetrics
	uploader Uploader
	now      func() time.Time
}

// DraftOption configures a DraftService
type DraftOption func(*DraftService)

// WithRecorder records submitted drafts in the activity log
func WithRecorder(r *Recorder) DraftOption {
	return func(s *DraftService) { s.recorder = r }
}

// WithMetrics counts submitted drafts
func WithMetrics(m *telemetry.ConsoleMetrics) DraftOption {
	return func(s *DraftService) { s.metrics = m }
}

// WithUploader enables image uploads into draft fields
func WithUploader(u Uploader) DraftOption {
	return func(s *DraftService) { s.uploader = u }
}

// WithLookups invalidates cached lookups when their entity is written
func WithLookups(l *Lookups) DraftOption {
	return func(s *DraftService) { s.lookups = l }
}

// NewDraftService creates a draft service
func NewDraftService(screens *Registry, state shared.StateStore, ttl time.Duration, opts ...DraftOption) *DraftService {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	s := &DraftService{
		screens: screens,
		state:   state,
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func draftKey(owner, id string) string {
	return "draft:" + owner + ":" + id
}

// Open starts a draft: a create form when recordID is empty, otherwise the
// edit form of that record
func (s *DraftService) Open(ctx context.Context, owner, entity, recordID string) (*DraftView, error) {
	screen, err := s.screens.Get(entity)
	if err != nil {
		return nil, err
	}
	var f *form.Form
	if recordID == "" {
		f, err = screen.BlankForm(ctx)
	} else {
		f, err = screen.RecordForm(ctx, recordID)
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	d := &Draft{
		ID:        uuid.NewString(),
		Entity:    entity,
		RecordID:  recordID,
		Form:      f,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.save(ctx, owner, d); err != nil {
		return nil, err
	}
	return d.View(), nil
}

// Get returns a draft of the owner
func (s *DraftService) Get(ctx context.Context, owner, id string) (*DraftView, error) {
	d, err := s.load(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	return d.View(), nil
}

// Change applies one change command and the entity rules
func (s *DraftService) Change(ctx context.Context, owner, id string, c form.Change) (*DraftView, error) {
	d, screen, err := s.loadWithScreen(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	ref, err := d.Form.Apply(c)
	if err != nil {
		return nil, err
	}
	if err := screen.Changed(ctx, d.Form, ref); err != nil {
		return nil, err
	}
	if err := s.save(ctx, owner, d); err != nil {
		return nil, err
	}
	return d.View(), nil
}

// Upload sends a file to storage and writes its URL into the image field the
// change addresses. A failed upload leaves the field unchanged.
func (s *DraftService) Upload(ctx context.Context, owner, id string, c form.Change, file media.File) (*DraftView, error) {
	if s.uploader == nil {
		return nil, shared.NewDomainError(shared.CodeNotSupported, "uploads are not configured")
	}
	d, screen, err := s.loadWithScreen(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	ref, err := d.Form.Target(c)
	if err != nil {
		return nil, err
	}
	field := d.Form.Field(ref)
	if field.Type != form.TypeImage {
		return nil, shared.Errorf(shared.CodeInvalidInput, "field %s does not accept images", field.Alias)
	}
	if field.Disabled {
		return nil, form.ErrDisabled
	}

	urls, err := s.uploader.Upload(ctx, d.Entity, file, field.Value.List, field.MultiSelect)
	if err != nil {
		return nil, err
	}
	c.Action = form.ActionSet
	c.Value = form.List(urls...)
	if _, err := d.Form.Apply(c); err != nil {
		return nil, err
	}
	if err := screen.Changed(ctx, d.Form, ref); err != nil {
		return nil, err
	}
	if err := s.save(ctx, owner, d); err != nil {
		return nil, err
	}
	return d.View(), nil
}

// Submit validates required fields, issues the create or update mutation,
// drops the draft and refetches the first page of the list
func (s *DraftService) Submit(ctx context.Context, owner, id string) (result *SubmitResult, err error) {
	d, screen, err := s.loadWithScreen(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if missing := d.Form.Missing(); len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "DraftService", "Submit")
	defer func() {
		s.metrics.RecordDraftSubmitted(ctx, d.Entity, err)
		telemetry.End(span, err)
	}()

	result = &SubmitResult{Entity: d.Entity, RecordID: d.RecordID}
	action := activity.ActionUpdate
	if d.RecordID == "" {
		newID, err := screen.Create(ctx, d.Form)
		if err != nil {
			return nil, err
		}
		result.RecordID = newID
		result.Created = true
		action = activity.ActionCreate
	} else if err := screen.Update(ctx, d.RecordID, d.Form); err != nil {
		return nil, err
	}

	if err := s.state.Delete(ctx, draftKey(owner, id)); err != nil {
		logger.L(ctx).Warn("Failed to drop submitted draft", zap.String("draft_id", id), zap.Error(err))
	}
	if s.lookups != nil {
		s.lookups.Invalidate(ctx, d.Entity)
	}
	s.recorder.Record(ctx, d.Entity, result.RecordID, action, "")

	list, listErr := screen.List(ctx, shared.PageRequest{PageNumber: 1})
	if listErr != nil {
		logger.L(ctx).Warn("Failed to refetch list after submit", zap.String("entity", d.Entity), zap.Error(listErr))
	} else {
		result.List = list
	}
	return result, nil
}

// Discard drops a draft without submitting it
func (s *DraftService) Discard(ctx context.Context, owner, id string) error {
	return s.state.Delete(ctx, draftKey(owner, id))
}

// Delete removes a record through its screen and records the mutation
func (s *DraftService) Delete(ctx context.Context, entity, id string) error {
	screen, err := s.screens.Get(entity)
	if err != nil {
		return err
	}
	if err := screen.Delete(ctx, id); err != nil {
		return err
	}
	if s.lookups != nil {
		s.lookups.Invalidate(ctx, entity)
	}
	s.recorder.Record(ctx, entity, id, activity.ActionDelete, "")
	return nil
}

func (s *DraftService) load(ctx context.Context, owner, id string) (*Draft, error) {
	d := &Draft{Form: &form.Form{}}
	if err := s.state.Load(ctx, draftKey(owner, id), d); err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, shared.Errorf(shared.CodeNotFound, "draft %s not found or expired", id)
		}
		return nil, err
	}
	return d, nil
}

func (s *DraftService) loadWithScreen(ctx context.Context, owner, id string) (*Draft, Screen, error) {
	d, err := s.load(ctx, owner, id)
	if err != nil {
		return nil, nil, err
	}
	screen, err := s.screens.Get(d.Entity)
	if err != nil {
		return nil, nil, err
	}
	return d, screen, nil
}

func (s *DraftService) save(ctx context.Context, owner string, d *Draft) error {
	d.UpdatedAt = s.now().UTC()
	return s.state.Store(ctx, draftKey(owner, d.ID), d, s.ttl)
}
