package console

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/shared"
)

// FieldReader reads typed values from a form scope and keeps the first
// parse error, so form-to-input mappers can check once at the end.
type FieldReader struct {
	form.Scope
	err *error
}

// Read wraps a scope
func Read(s form.Scope) *FieldReader {
	return &FieldReader{Scope: s, err: new(error)}
}

// Decimal reads a number field; empty reads as zero
func (r *FieldReader) Decimal(alias string) decimal.Decimal {
	d, err := r.Scope.Decimal(alias)
	r.keep(err)
	return d
}

// Int reads an integer field; empty reads as zero
func (r *FieldReader) Int(alias string) int {
	n, err := r.Scope.Int(alias)
	r.keep(err)
	return n
}

// Time reads a date or date-time field; empty reads as nil
func (r *FieldReader) Time(alias string) *time.Time {
	t, err := r.Scope.Time(alias, DateLayouts...)
	r.keep(err)
	return t
}

// Optional returns a pointer to the checkbox value
func (r *FieldReader) Optional(alias string) *bool {
	b := r.Scope.Bool(alias)
	return &b
}

// Rows wraps every row of a sub-form; row readers share the parent's error
func (r *FieldReader) Rows(alias string) []*FieldReader {
	rows := r.Scope.Rows(alias)
	out := make([]*FieldReader, 0, len(rows))
	for _, row := range rows {
		out = append(out, &FieldReader{Scope: row, err: r.err})
	}
	return out
}

// Err returns the first parse error as an INVALID_INPUT domain error
func (r *FieldReader) Err() error {
	if *r.err == nil {
		return nil
	}
	return shared.NewDomainError(shared.CodeInvalidInput, (*r.err).Error())
}

func (r *FieldReader) keep(err error) {
	if err != nil && *r.err == nil {
		*r.err = err
	}
}
