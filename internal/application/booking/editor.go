package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/activity"
	"github.com/bookingops/console/internal/domain/booking"
	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/media"
	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/infrastructure/logger"
	"github.com/bookingops/console/internal/infrastructure/telemetry"
)

// SectionState is the toggle state of one job section
type SectionState struct {
	Editing  bool `json:"editing"`
	CanEnter bool `json:"canEnter"`
}

// JobEditView is the render-ready state of a job detail screen. Fields and
// Missing describe the section in edit mode; Quote is the pricing preview
// waiting for confirmation, shown as a read-only overlay.
type JobEditView struct {
	JobID    string                           `json:"jobId"`
	Job      *booking.Job                     `json:"job,omitempty"`
	Sections map[booking.Section]SectionState `json:"sections"`
	Active   booking.Section                  `json:"active,omitempty"`
	Fields   []form.Descriptor                `json:"fields,omitempty"`
	Missing  []string                         `json:"missing,omitempty"`
	Quote    *booking.PreBooking              `json:"quote,omitempty"`
}

// editState is what the editor keeps in the state store per session and job
type editState struct {
	Session *booking.EditSession           `json:"session"`
	Forms   map[booking.Section]*form.Form `json:"forms"`
	// CategoryID is the job's category, which narrows item and worker choices
	CategoryID string `json:"categoryId,omitempty"`
}

func (st *editState) view(job *booking.Job) *JobEditView {
	v := &JobEditView{
		JobID:    st.Session.JobID,
		Job:      job,
		Sections: make(map[booking.Section]SectionState, len(booking.Sections)),
		Quote:    st.Session.Quote,
	}
	for _, sec := range booking.Sections {
		v.Sections[sec] = SectionState{Editing: st.Session.IsEditing(sec), CanEnter: st.Session.CanEnter(sec)}
	}
	if sec, ok := st.Session.Active(); ok {
		v.Active = sec
		if f := st.Forms[sec]; f != nil {
			v.Fields = f.Descriptors()
			v.Missing = f.Missing()
		}
	}
	return v
}

// JobEditor drives the four mutually exclusive edit sections of a job and the
// items pricing preview. State lives in the state store keyed by the console
// session and the job; concurrent edits are last-writer-wins.
type JobEditor struct {
	jobs     booking.JobRepository
	lookups  *console.Lookups
	state    shared.StateStore
	ttl      time.Duration
	recorder *console.Recorder
	metrics  *telemetry.ConsoleMetrics
	uploader console.Uploader
}

// EditorOption configures a JobEditor
type EditorOption func(*JobEditor)

// WithRecorder records saved sections in the activity log
func WithRecorder(r *console.Recorder) EditorOption {
	return func(e *JobEditor) { e.recorder = r }
}

// WithMetrics counts pricing previews and confirmations
func WithMetrics(m *telemetry.ConsoleMetrics) EditorOption {
	return func(e *JobEditor) { e.metrics = m }
}

// WithUploader enables image uploads into the general section
func WithUploader(u console.Uploader) EditorOption {
	return func(e *JobEditor) { e.uploader = u }
}

// NewJobEditor creates a job editor
func NewJobEditor(jobs booking.JobRepository, lookups *console.Lookups, state shared.StateStore, ttl time.Duration, opts ...EditorOption) *JobEditor {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	e := &JobEditor{jobs: jobs, lookups: lookups, state: state, ttl: ttl}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func editKey(owner, jobID string) string {
	return "jobedit:" + owner + ":" + jobID
}

// Open fetches the job and returns its current edit state
func (e *JobEditor) Open(ctx context.Context, owner, jobID string) (*JobEditView, error) {
	job, err := e.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	st, err := e.load(ctx, owner, jobID)
	if err != nil {
		return nil, err
	}
	return st.view(job), nil
}

// Enter turns a section's toggle on and builds its form from the job. It is
// rejected while any sibling section is editing.
func (e *JobEditor) Enter(ctx context.Context, owner, jobID string, sec booking.Section) (*JobEditView, error) {
	st, err := e.load(ctx, owner, jobID)
	if err != nil {
		return nil, err
	}
	if st.Session.IsEditing(sec) {
		return st.view(nil), nil
	}
	if err := st.Session.Enter(sec); err != nil {
		return nil, err
	}
	job, err := e.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	f, err := e.sectionForm(ctx, sec, job)
	if err != nil {
		return nil, err
	}
	st.Forms[sec] = f
	st.CategoryID = job.CategoryID
	if err := e.save(ctx, owner, st); err != nil {
		return nil, err
	}
	return st.view(job), nil
}

// Change applies one change command to the section in edit mode. Editing the
// items drops a pending preview, which no longer matches the form.
func (e *JobEditor) Change(ctx context.Context, owner, jobID string, sec booking.Section, c form.Change) (*JobEditView, error) {
	st, f, err := e.editing(ctx, owner, jobID, sec)
	if err != nil {
		return nil, err
	}
	if _, err := f.Apply(c); err != nil {
		return nil, err
	}
	if err := e.rules(ctx, st, sec, f); err != nil {
		return nil, err
	}
	if sec == booking.SectionItems {
		st.Session.DropQuote()
	}
	if err := e.save(ctx, owner, st); err != nil {
		return nil, err
	}
	return st.view(nil), nil
}

// Upload sends an image to storage and appends it to an image field of the
// section in edit mode
func (e *JobEditor) Upload(ctx context.Context, owner, jobID string, sec booking.Section, c form.Change, file media.File) (*JobEditView, error) {
	if e.uploader == nil {
		return nil, shared.NewDomainError(shared.CodeNotSupported, "uploads are not configured")
	}
	st, f, err := e.editing(ctx, owner, jobID, sec)
	if err != nil {
		return nil, err
	}
	ref, err := f.Target(c)
	if err != nil {
		return nil, err
	}
	field := f.Field(ref)
	if field.Type != form.TypeImage {
		return nil, shared.Errorf(shared.CodeInvalidInput, "field %s does not accept images", field.Alias)
	}
	urls, err := e.uploader.Upload(ctx, EntityJob, file, field.Value.List, field.MultiSelect)
	if err != nil {
		return nil, err
	}
	c.Action = form.ActionSet
	c.Value = form.List(urls...)
	if _, err := f.Apply(c); err != nil {
		return nil, err
	}
	if err := e.save(ctx, owner, st); err != nil {
		return nil, err
	}
	return st.view(nil), nil
}

// Save submits the section in edit mode. General, status and worker issue
// their mutation and leave edit mode. Items request a pricing preview instead
// and stay in edit mode until the preview is confirmed or dismissed.
func (e *JobEditor) Save(ctx context.Context, owner, jobID string, sec booking.Section) (*JobEditView, error) {
	st, f, err := e.editing(ctx, owner, jobID, sec)
	if err != nil {
		return nil, err
	}
	if missing := f.Missing(); len(missing) > 0 {
		return nil, &console.MissingFieldsError{Fields: missing}
	}

	var action activity.Action
	switch sec {
	case booking.SectionGeneral:
		s := f.Scope()
		err = e.jobs.Update(ctx, jobID, booking.JobUpdateInput{
			Address:       s.Text("address"),
			AdminNote:     s.Text("adminNote"),
			ImageURLs:     nonNil(s.List("imageUrls")),
			WorkImageURLs: nonNil(s.List("workImageUrls")),
		})
		action = activity.ActionUpdate
	case booking.SectionStatus:
		var in booking.StatusInput
		if in, err = statusInput(f); err == nil {
			err = e.jobs.UpdateStatus(ctx, jobID, in)
		}
		action = activity.ActionStatusChange
	case booking.SectionWorker:
		err = e.jobs.AssignWorker(ctx, jobID, booking.AssignWorkerInput{WorkerID: f.Scope().Text("workerId")})
		action = activity.ActionAssignWorker
	case booking.SectionItems:
		return e.preview(ctx, owner, jobID, st, f)
	}
	if err != nil {
		return nil, err
	}

	e.leave(st, sec)
	if err := e.save(ctx, owner, st); err != nil {
		return nil, err
	}
	e.recorder.Record(ctx, EntityJob, jobID, action, string(sec))
	return st.view(e.refetch(ctx, jobID)), nil
}

// preview assembles the cart from the items form and asks the API to price it.
// The response is stored untouched as the pending quote.
func (e *JobEditor) preview(ctx context.Context, owner, jobID string, st *editState, f *form.Form) (view *JobEditView, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "JobEditor", "Preview")
	defer func() {
		e.metrics.RecordPricingPreview(ctx, err)
		telemetry.End(span, err)
	}()

	job, err := e.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	cart, err := buildCart(f, job)
	if err != nil {
		return nil, err
	}
	quote, err := e.jobs.PreBooking(ctx, cart)
	if err != nil {
		return nil, err
	}
	if err := st.Session.SetQuote(quote); err != nil {
		return nil, err
	}
	if err := e.save(ctx, owner, st); err != nil {
		return nil, err
	}
	return st.view(job), nil
}

// Confirm sends the pending quote exactly as the API computed it, leaves the
// items section and refetches the job
func (e *JobEditor) Confirm(ctx context.Context, owner, jobID string) (view *JobEditView, err error) {
	st, err := e.load(ctx, owner, jobID)
	if err != nil {
		return nil, err
	}
	quote, err := st.Session.PendingQuote()
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "JobEditor", "Confirm")
	defer func() {
		e.metrics.RecordPricingConfirm(ctx, err)
		telemetry.End(span, err)
	}()

	if err := e.jobs.UpdateItems(ctx, jobID, quote.ItemsUpdate()); err != nil {
		return nil, err
	}
	e.leave(st, booking.SectionItems)
	if err := e.save(ctx, owner, st); err != nil {
		return nil, err
	}
	e.recorder.Record(ctx, EntityJob, jobID, activity.ActionConfirmItems, quote.FinalTotalPrice.String())
	return st.view(e.refetch(ctx, jobID)), nil
}

// Dismiss closes the preview overlay; the items section stays in edit mode
func (e *JobEditor) Dismiss(ctx context.Context, owner, jobID string) (*JobEditView, error) {
	st, _, err := e.editing(ctx, owner, jobID, booking.SectionItems)
	if err != nil {
		return nil, err
	}
	st.Session.DropQuote()
	if err := e.save(ctx, owner, st); err != nil {
		return nil, err
	}
	return st.view(nil), nil
}

// Cancel leaves a section and discards its form
func (e *JobEditor) Cancel(ctx context.Context, owner, jobID string, sec booking.Section) (*JobEditView, error) {
	st, err := e.load(ctx, owner, jobID)
	if err != nil {
		return nil, err
	}
	e.leave(st, sec)
	if err := e.save(ctx, owner, st); err != nil {
		return nil, err
	}
	return st.view(nil), nil
}

func (e *JobEditor) leave(st *editState, sec booking.Section) {
	st.Session.Leave(sec)
	delete(st.Forms, sec)
}

func (e *JobEditor) refetch(ctx context.Context, jobID string) *booking.Job {
	job, err := e.jobs.FindByID(ctx, jobID)
	if err != nil {
		logger.L(ctx).Warn("Failed to refetch job", zap.String("job_id", jobID), zap.Error(err))
		return nil
	}
	return job
}

func (e *JobEditor) editing(ctx context.Context, owner, jobID string, sec booking.Section) (*editState, *form.Form, error) {
	st, err := e.load(ctx, owner, jobID)
	if err != nil {
		return nil, nil, err
	}
	f := st.Forms[sec]
	if !st.Session.IsEditing(sec) || f == nil {
		return nil, nil, booking.ErrNotEditing
	}
	return st, f, nil
}

func (e *JobEditor) load(ctx context.Context, owner, jobID string) (*editState, error) {
	st := &editState{}
	err := e.state.Load(ctx, editKey(owner, jobID), st)
	switch {
	case shared.IsCode(err, shared.CodeNotFound):
		st = &editState{}
	case err != nil:
		return nil, err
	}
	if st.Session == nil {
		st.Session = booking.NewEditSession(jobID)
	}
	if st.Session.Editing == nil {
		st.Session.Editing = make(map[booking.Section]bool, len(booking.Sections))
	}
	if st.Forms == nil {
		st.Forms = make(map[booking.Section]*form.Form, len(booking.Sections))
	}
	return st, nil
}

func (e *JobEditor) save(ctx context.Context, owner string, st *editState) error {
	key := editKey(owner, st.Session.JobID)
	if _, active := st.Session.Active(); !active {
		return e.state.Delete(ctx, key)
	}
	return e.state.Store(ctx, key, st, e.ttl)
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
