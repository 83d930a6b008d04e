package forms

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ksacademy/backoffice/internal/app/models"
	"github.com/ksacademy/backoffice/internal/pkg/apperrors"
	"github.com/ksacademy/backoffice/internal/pkg/validation"
)

// FeesDraft is the unsaved fee entry a controller holds while editing.
// TotalFees is the due snapshot the payment reconciles against; DueFees is
// derived, never entered.
type FeesDraft struct {
	RegistrationNo string `validate:"required"`
	FeeDate        time.Time
	StudentName    string
	Course         string
	TotalFees      string `validate:"required,numeric_str"`
	PaidFees       string `validate:"required,numeric_str"`
	DueFees        string
	DueDate        string
	PaidThrough    string `validate:"required"`
	ReceivedBy     string `validate:"required"`
}

var feesRules = map[string]fieldRule{
	"RegistrationNo": {field: "registrationNo", messages: map[string]string{"required": "Registration number is required"}},
	"TotalFees":      {field: "totalFees", messages: map[string]string{"required": "Total fees is required", "numeric_str": "Total fees must be a valid number"}},
	"PaidFees":       {field: "paidFees", messages: map[string]string{"required": "Paid fees is required", "numeric_str": "Paid fees must be a valid number"}},
	"PaidThrough":    {field: "paidThrough", messages: map[string]string{"required": "Payment method is required"}},
	"ReceivedBy":     {field: "receivedBy", messages: map[string]string{"required": "Received by is required"}},
}

// FeesForm drives the fee-entry flow: registration lookup, reactive due
// derivation, validation, submission.
type FeesForm struct {
	formState
	api      API
	logger   zerolog.Logger
	validate *validator.Validate
	draft    FeesDraft
	options  []models.FeeRegistrationOption
}

// NewFeesForm creates a fee-entry form dated today.
func NewFeesForm(api API, logger zerolog.Logger) *FeesForm {
	return &FeesForm{
		api:      api,
		logger:   logger,
		validate: validation.NewValidator(),
		draft: FeesDraft{
			FeeDate: time.Now(),
		},
	}
}

// LoadRegistrations fetches the registration lookup list for this form
// session.
func (f *FeesForm) LoadRegistrations(ctx context.Context) ([]models.FeeRegistrationOption, error) {
	options, err := f.api.FeeRegistrationNumbers(ctx)
	if err != nil {
		f.logger.Error().Err(err).Msg("failed to fetch fee registration numbers")
		return nil, err
	}
	f.mu.Lock()
	f.options = options
	f.mu.Unlock()
	return options, nil
}

// SelectRegistration picks a registration from the loaded lookup and
// pre-fills the denormalized snapshot: student name, course, and the due
// amount this payment reconciles against. An empty number clears the
// snapshot.
func (f *FeesForm) SelectRegistration(registrationNo string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if registrationNo == "" {
		f.draft.RegistrationNo = ""
		f.draft.StudentName = ""
		f.draft.Course = ""
		f.clearFieldError("registrationNo")
		return nil
	}

	for _, opt := range f.options {
		if opt.RegistrationNo == registrationNo {
			f.draft.RegistrationNo = opt.RegistrationNo
			f.draft.StudentName = opt.StudentName
			f.draft.Course = opt.Course

			initial := opt.DueFees
			if initial == 0 {
				initial = opt.TotalFees
			}
			f.draft.TotalFees = initial.String()
			f.recompute()
			f.clearFieldError("registrationNo")
			return nil
		}
	}
	return apperrors.NewAPIError(0, "unknown registration number: "+registrationNo)
}

// Draft returns a copy of the current draft.
func (f *FeesForm) Draft() FeesDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Set updates one draft field by its form field name. Changing either fee
// amount re-derives the due amount immediately.
func (f *FeesForm) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case "date":
		d, err := time.Parse("2006-01-02", value)
		if err != nil {
			return apperrors.NewAPIError(0, "invalid date: "+value)
		}
		f.draft.FeeDate = d
	case "totalFees":
		f.draft.TotalFees = value
		f.recompute()
	case "paidFees":
		f.draft.PaidFees = value
		f.recompute()
	case "dueDate":
		f.draft.DueDate = value
	case "paidThrough":
		f.draft.PaidThrough = value
	case "receivedBy":
		f.draft.ReceivedBy = value
	default:
		return apperrors.NewAPIError(0, "unknown field: "+field)
	}

	f.clearFieldError(field)
	return nil
}

// recompute derives dueFees = totalFees - paidFees, floored at zero.
// Unparseable amounts count as zero so the projection never fails; the
// validator rejects them at submit time. Callers hold the lock.
func (f *FeesForm) recompute() {
	total := parseAmount(f.draft.TotalFees)
	paid := parseAmount(f.draft.PaidFees)
	due := total - paid
	if due < 0 {
		due = 0
	}
	f.draft.DueFees = strconv.FormatFloat(due, 'f', -1, 64)
}

// parseAmount parses a fee amount, zero when blank or malformed.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// validateDraft is a pure function of the draft.
func (f *FeesForm) validateDraft() map[string]string {
	errs := map[string]string{}
	if err := f.validate.Struct(f.draft); err != nil {
		errs = translate(err, feesRules)
	}

	// An overpayment is a field error, never a silent clamp.
	if parseAmount(f.draft.PaidFees) > parseAmount(f.draft.TotalFees) {
		errs["paidFees"] = "Paid fees cannot exceed total fees"
	}

	return errs
}

// Submit validates the draft and records the payment.
func (f *FeesForm) Submit(ctx context.Context) error {
	if err := f.beginSubmit(f.validateDraft); err != nil {
		return err
	}

	draft := f.Draft()
	payload := models.FeesPayload{
		RegistrationNo: draft.RegistrationNo,
		FeeDate:        draft.FeeDate,
		PaidFees:       draft.PaidFees,
		PaidThrough:    draft.PaidThrough,
		ReceivedBy:     draft.ReceivedBy,
	}

	_, err := f.api.CreateFeesEntry(ctx, payload)
	if err != nil {
		f.logger.Error().Err(err).Str("form", "fees").Msg("submission failed")
	}
	f.finishSubmit(err)
	return err
}
