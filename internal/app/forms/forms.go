// Package forms holds the per-screen form state controllers: draft values,
// submit-gated validation, derived fields, and create-vs-update dispatch
// to the API client.
package forms

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ksacademy/backoffice/internal/app/models"
	"github.com/ksacademy/backoffice/internal/pkg/apperrors"
)

// API is the slice of the client the form controllers depend on. The
// concrete *client.Client satisfies it; tests substitute a fake.
type API interface {
	Login(ctx context.Context, email, password string) (*models.Envelope, error)
	ForgotPassword(ctx context.Context, email string) (*models.Envelope, error)
	ResetPassword(ctx context.Context, otp, password string) (*models.Envelope, error)
	Logout(ctx context.Context) (*models.Envelope, error)
	CreateEnquiry(ctx context.Context, p models.EnquiryPayload) (*models.Envelope, error)
	UpdateEnquiry(ctx context.Context, id string, p models.EnquiryPayload) (*models.Envelope, error)
	CreateRegistration(ctx context.Context, p models.RegistrationPayload) (*models.Envelope, error)
	UpdateRegistration(ctx context.Context, id string, p models.RegistrationPayload) (*models.Envelope, error)
	RegistrationNumber(ctx context.Context) (string, error)
	CreateFeesEntry(ctx context.Context, p models.FeesPayload) (*models.Envelope, error)
	FeeRegistrationNumbers(ctx context.Context) ([]models.FeeRegistrationOption, error)
	Courses(ctx context.Context) ([]models.Option, error)
	Franchisees(ctx context.Context) ([]models.Option, error)
}

// State is a form controller's lifecycle state.
type State int

// Form states. A failed submission returns the form to StateEditing with
// its draft intact; StateSucceeded is terminal.
const (
	StateEditing State = iota
	StateSubmitting
	StateSucceeded
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	default:
		return "editing"
	}
}

// formState is the state machine shared by every form controller.
type formState struct {
	mu     sync.Mutex
	state  State
	errors map[string]string
}

// State returns the current lifecycle state.
func (f *formState) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// FieldErrors returns a copy of the current field-level annotations.
func (f *formState) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// FieldError returns the annotation for one field, "" when clean.
func (f *formState) FieldError(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[field]
}

// beginSubmit validates and transitions to StateSubmitting. validate runs
// under the lock so a competing Submit cannot interleave; it must be a
// pure function of the draft.
func (f *formState) beginSubmit(validate func() map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitting {
		return apperrors.ErrSubmitInFlight
	}

	errs := validate()
	if len(errs) > 0 {
		f.errors = errs
		return apperrors.ErrValidationFailed
	}

	f.errors = nil
	f.state = StateSubmitting
	return nil
}

// finishSubmit leaves StateSubmitting: success is terminal, failure
// returns to editing with the draft untouched.
func (f *formState) finishSubmit(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateEditing
		if apiErr, ok := apperrors.AsAPIError(err); ok && len(apiErr.Fields) > 0 {
			f.errors = apiErr.Fields
		}
		return
	}
	f.state = StateSucceeded
}

// clearFieldError drops one field's annotation; editing a field clears its
// error.
func (f *formState) clearFieldError(field string) {
	if f.errors != nil {
		delete(f.errors, field)
	}
}

// fieldRule maps a draft struct field to its form field name and the user
// message for each validator tag that can fail on it.
type fieldRule struct {
	field    string
	messages map[string]string
}

// translate converts validator errors into the per-field message map the
// presentation layer annotates inputs with.
func translate(err error, rules map[string]fieldRule) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}
	for _, fe := range verrs {
		rule, ok := rules[fe.StructField()]
		if !ok {
			continue
		}
		msg := rule.messages[fe.Tag()]
		if msg == "" {
			msg = "Invalid value"
		}
		if _, exists := out[rule.field]; !exists {
			out[rule.field] = msg
		}
	}
	return out
}
