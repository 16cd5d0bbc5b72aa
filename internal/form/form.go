// Package form implements a typed form controller: field values, per-field
// validation, touched tracking and the submit lifecycle.
package form

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/five82/roster/internal/logging"
)

// ErrUnknownField is returned when an operation names a field the form does
// not declare.
var ErrUnknownField = errors.New("unknown form field")

// Values maps every declared field to its current text.
type Values[F ~string] map[F]string

// SubmitFunc receives a copy of the validated values. A returned error marks
// the submission failed; it is logged and never mapped onto field errors.
type SubmitFunc[F ~string] func(ctx context.Context, values Values[F]) error

// Spec declares a form.
type Spec[F ~string] struct {
	Fields  []F
	Initial map[F]string
	Rules   map[F]Rule
	Submit  SubmitFunc[F]
	Logger  logrus.FieldLogger
}

// State is a copy of the form at a point in time.
type State[F ~string] struct {
	Values       map[F]string
	Errors       map[F]string
	Touched      map[F]bool
	IsSubmitting bool
	IsValid      bool
}

// OutcomeStatus classifies the result of HandleSubmit.
type OutcomeStatus int

const (
	// OutcomeInvalid means validation failed and submit was not called.
	OutcomeInvalid OutcomeStatus = iota
	// OutcomeSubmitted means submit was called and returned nil.
	OutcomeSubmitted
	// OutcomeFailed means submit was called and returned an error.
	OutcomeFailed
	// OutcomeBusy means another submission was still running.
	OutcomeBusy
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeSubmitted:
		return "submitted"
	case OutcomeFailed:
		return "failed"
	case OutcomeBusy:
		return "busy"
	default:
		return fmt.Sprintf("OutcomeStatus(%d)", int(s))
	}
}

// Outcome reports what HandleSubmit did.
type Outcome struct {
	Status OutcomeStatus
	Err    error
}

// Form is safe for concurrent use.
type Form[F ~string] struct {
	fields  []F
	initial map[F]string
	rules   map[F]Rule
	submit  SubmitFunc[F]
	log     logrus.FieldLogger

	mu         sync.Mutex
	values     map[F]string
	errors     map[F]string
	touched    map[F]bool
	submitting bool
}

// New checks spec and returns a form holding the initial values. Fields absent
// from spec.Initial start empty.
func New[F ~string](spec Spec[F]) (*Form[F], error) {
	if len(spec.Fields) == 0 {
		return nil, errors.New("form declares no fields")
	}
	if spec.Submit == nil {
		return nil, errors.New("form submit func is required")
	}

	declared := make(map[F]struct{}, len(spec.Fields))
	for _, f := range spec.Fields {
		if strings.TrimSpace(string(f)) == "" {
			return nil, errors.New("form field name is blank")
		}
		if _, dup := declared[f]; dup {
			return nil, fmt.Errorf("form field %q declared twice", f)
		}
		declared[f] = struct{}{}
	}
	for f := range spec.Rules {
		if _, ok := declared[f]; !ok {
			return nil, fmt.Errorf("rule for %w %q", ErrUnknownField, f)
		}
	}
	for f := range spec.Initial {
		if _, ok := declared[f]; !ok {
			return nil, fmt.Errorf("initial value for %w %q", ErrUnknownField, f)
		}
	}

	initial := make(map[F]string, len(spec.Fields))
	for _, f := range spec.Fields {
		initial[f] = spec.Initial[f]
	}

	logger := spec.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	form := &Form[F]{
		fields:  append([]F(nil), spec.Fields...),
		initial: initial,
		rules:   maps.Clone(spec.Rules),
		submit:  spec.Submit,
		log:     logger,
	}
	form.resetLocked()
	return form, nil
}

// Fields returns the declared fields in order.
func (f *Form[F]) Fields() []F {
	return append([]F(nil), f.fields...)
}

// Value returns the current text of field.
func (f *Form[F]) Value(field F) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// Error returns the recorded error for field, or "".
func (f *Form[F]) Error(field F) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[field]
}

// Touched reports whether field has been left or a submit was attempted.
func (f *Form[F]) Touched(field F) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched[field]
}

// SetValue stores value. A recorded error on field is cleared without
// re-running its rule; it returns on the next SetTouched or submit.
func (f *Form[F]) SetValue(field F, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.knows(field) {
		return fmt.Errorf("%w %q", ErrUnknownField, field)
	}
	f.values[field] = value
	if f.errors[field] != "" {
		f.errors[field] = ""
	}
	return nil
}

// SetTouched marks field touched and records its validation result.
func (f *Form[F]) SetTouched(field F) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.knows(field) {
		return fmt.Errorf("%w %q", ErrUnknownField, field)
	}
	f.touched[field] = true
	f.errors[field] = f.check(field)
	return nil
}

// ValidateField checks the current value of field without recording it.
// Fields without a rule are always valid.
func (f *Form[F]) ValidateField(field F) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.check(field)
}

// ValidateAll validates every field, records every result and reports
// whether all passed.
func (f *Form[F]) ValidateAll() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateAllLocked()
}

// IsValid reports whether no recorded error is set. Untouched fields that were
// never validated do not count against it; HandleSubmit always validates
// every field before calling submit.
func (f *Form[F]) IsValid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validLocked()
}

// IsSubmitting reports whether a submit call is in progress.
func (f *Form[F]) IsSubmitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// HandleSubmit marks every field touched and validates them all. When the
// form is valid it calls submit with a copy of the values, holding
// IsSubmitting for the duration of the call.
func (f *Form[F]) HandleSubmit(ctx context.Context) Outcome {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return Outcome{Status: OutcomeBusy}
	}
	for _, field := range f.fields {
		f.touched[field] = true
	}
	if !f.validateAllLocked() {
		f.mu.Unlock()
		return Outcome{Status: OutcomeInvalid}
	}
	f.submitting = true
	values := Values[F](maps.Clone(f.values))
	f.mu.Unlock()

	err := f.submit(ctx, values)

	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()

	if err != nil {
		f.log.WithError(err).Error("form submit failed")
		return Outcome{Status: OutcomeFailed, Err: err}
	}
	return Outcome{Status: OutcomeSubmitted}
}

// Reset restores the freshly constructed state.
func (f *Form[F]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

// State returns a deep copy of the form.
func (f *Form[F]) State() State[F] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State[F]{
		Values:       maps.Clone(f.values),
		Errors:       maps.Clone(f.errors),
		Touched:      maps.Clone(f.touched),
		IsSubmitting: f.submitting,
		IsValid:      f.validLocked(),
	}
}

func (f *Form[F]) resetLocked() {
	f.values = maps.Clone(f.initial)
	f.errors = make(map[F]string, len(f.fields))
	f.touched = make(map[F]bool, len(f.fields))
	f.submitting = false
}

func (f *Form[F]) knows(field F) bool {
	_, ok := f.initial[field]
	return ok
}

func (f *Form[F]) check(field F) string {
	rule, ok := f.rules[field]
	if !ok {
		return ""
	}
	return rule.Check(string(field), f.values[field])
}

func (f *Form[F]) validateAllLocked() bool {
	valid := true
	for _, field := range f.fields {
		msg := f.check(field)
		f.errors[field] = msg
		if msg != "" {
			valid = false
		}
	}
	return valid
}

func (f *Form[F]) validLocked() bool {
	for _, msg := range f.errors {
		if msg != "" {
			return false
		}
	}
	return true
}
