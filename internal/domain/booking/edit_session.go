package booking

import (
	"github.com/bookingops/console/internal/domain/shared"
)

// Section is one independently editable part of the job detail screen
type Section string

const (
	SectionGeneral Section = "general"
	SectionStatus  Section = "status"
	SectionWorker  Section = "worker"
	SectionItems   Section = "items"
)

// Sections lists the job sections in display order
var Sections = []Section{SectionGeneral, SectionStatus, SectionWorker, SectionItems}

// ParseSection validates a section name
func ParseSection(s string) (Section, error) {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec, nil
		}
	}
	return "", shared.Errorf(shared.CodeInvalidInput, "unknown job section %q", s)
}

// Errors returned by EditSession
var (
	ErrSectionBusy     = shared.NewDomainError(shared.CodeInvalidState, "another section of this job is being edited")
	ErrNotEditing      = shared.NewDomainError(shared.CodeInvalidState, "section is not in edit mode")
	ErrNoPendingQuote  = shared.NewDomainError(shared.CodeInvalidState, "no price preview is waiting for confirmation")
	ErrQuoteNotAllowed = shared.NewDomainError(shared.CodeInvalidState, "price previews belong to the items section")
)

// EditSession tracks the edit toggles of one job detail screen.
//
// Each section has its own toggle; a section may only enter edit mode while
// every sibling toggle is off. The items section may hold a pending quote
// between the pricing request and the operator's confirmation.
type EditSession struct {
	JobID   string           `json:"jobId"`
	Editing map[Section]bool `json:"editing"`
	Quote   *PreBooking      `json:"quote,omitempty"`
}

// NewEditSession returns a session with every toggle off
func NewEditSession(jobID string) *EditSession {
	return &EditSession{
		JobID:   jobID,
		Editing: make(map[Section]bool, len(Sections)),
	}
}

// IsEditing reports whether the section's toggle is on
func (s *EditSession) IsEditing(sec Section) bool {
	return s.Editing[sec]
}

// Active returns the section currently in edit mode, if any
func (s *EditSession) Active() (Section, bool) {
	for _, sec := range Sections {
		if s.Editing[sec] {
			return sec, true
		}
	}
	return "", false
}

// CanEnter reports whether every sibling toggle of sec is off
func (s *EditSession) CanEnter(sec Section) bool {
	for _, other := range Sections {
		if other != sec && s.Editing[other] {
			return false
		}
	}
	return true
}

// Enter turns the section's toggle on. Re-entering an active section is a no-op.
func (s *EditSession) Enter(sec Section) error {
	if !s.CanEnter(sec) {
		return ErrSectionBusy
	}
	if s.Editing == nil {
		s.Editing = make(map[Section]bool, len(Sections))
	}
	s.Editing[sec] = true
	return nil
}

// Leave turns the section's toggle off and drops any pending quote it held
func (s *EditSession) Leave(sec Section) {
	delete(s.Editing, sec)
	if sec == SectionItems {
		s.Quote = nil
	}
}

// SetQuote stores the pricing response while the items section is editing
func (s *EditSession) SetQuote(q *PreBooking) error {
	if !s.Editing[SectionItems] {
		return ErrQuoteNotAllowed
	}
	s.Quote = q
	return nil
}

// DropQuote discards the pending quote and keeps the items section editing
func (s *EditSession) DropQuote() {
	s.Quote = nil
}

// PendingQuote returns the quote waiting for confirmation
func (s *EditSession) PendingQuote() (*PreBooking, error) {
	if !s.Editing[SectionItems] {
		return nil, ErrNotEditing
	}
	if s.Quote == nil {
		return nil, ErrNoPendingQuote
	}
	return s.Quote, nil
}
