package forms

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ksacademy/backoffice/internal/app/models"
	"github.com/ksacademy/backoffice/internal/pkg/apperrors"
	"github.com/ksacademy/backoffice/internal/pkg/validation"
)

// RegistrationDraft is the unsaved registration a controller holds while
// editing. Dates are YYYY-MM-DD strings, matching the wire format.
type RegistrationDraft struct {
	RegistrationNo     string
	StudentName        string `validate:"required"`
	GuardianName       string `validate:"required"`
	GuardianOccupation string
	Course             string `validate:"required"`
	DOB                string `validate:"required"`
	Address            string `validate:"required"`
	ContactNo          string `validate:"required,contact"`
	GuardianContactNo  string `validate:"omitempty,contact"`
	Email              string `validate:"omitempty,loose_email"`
	Category           string
	ComputerCourse     string
	Medium             string
	RegistrationDate   string
	RegistrationFees   string `validate:"required"`
}

var registrationRules = map[string]fieldRule{
	"StudentName":       {field: "studentName", messages: map[string]string{"required": "Student name is required"}},
	"GuardianName":      {field: "guardianName", messages: map[string]string{"required": "Parent/Husband name is required"}},
	"Course":            {field: "course", messages: map[string]string{"required": "Course is required"}},
	"DOB":               {field: "dob", messages: map[string]string{"required": "Date of birth is required"}},
	"Address":           {field: "address", messages: map[string]string{"required": "Address is required"}},
	"ContactNo":         {field: "contactNo", messages: map[string]string{"required": "Contact number is required", "contact": "Contact number must be 10 digits"}},
	"GuardianContactNo": {field: "guardianContactNo", messages: map[string]string{"contact": "Contact number must be 10 digits"}},
	"Email":             {field: "email", messages: map[string]string{"loose_email": "Please enter a valid email"}},
	"RegistrationFees":  {field: "registrationFees", messages: map[string]string{"required": "Registration fees is required"}},
}

// RegistrationForm drives the registration create/edit flow. Forms seeded
// from an enquiry mark the denormalized fields read-only.
type RegistrationForm struct {
	formState
	api      API
	logger   zerolog.Logger
	validate *validator.Validate
	draft    RegistrationDraft
	editID   string
	readOnly map[string]bool
}

// NewRegistrationForm creates a registration form in create mode.
func NewRegistrationForm(api API, logger zerolog.Logger) *RegistrationForm {
	return &RegistrationForm{
		api:      api,
		logger:   logger,
		validate: validation.NewValidator(),
		draft: RegistrationDraft{
			RegistrationDate: time.Now().Format("2006-01-02"),
		},
	}
}

// NewRegistrationFormFromEnquiry creates a registration form pre-filled
// from an enquiry; the carried-over fields are read-only in this mode.
func NewRegistrationFormFromEnquiry(api API, logger zerolog.Logger, e models.Enquiry) *RegistrationForm {
	f := NewRegistrationForm(api, logger)
	f.draft.StudentName = e.StudentName
	f.draft.ContactNo = e.ContactNumber
	f.draft.Course = e.Course
	f.readOnly = map[string]bool{
		"studentName": true,
		"contactNo":   true,
		"course":      true,
	}
	return f
}

// NewRegistrationEditForm creates a registration form in edit mode, seeded
// from an existing record.
func NewRegistrationEditForm(api API, logger zerolog.Logger, r models.Registration) *RegistrationForm {
	return &RegistrationForm{
		api:      api,
		logger:   logger,
		validate: validation.NewValidator(),
		editID:   r.ID.String(),
		draft: RegistrationDraft{
			RegistrationNo:     r.RegistrationNo,
			StudentName:        r.StudentName,
			GuardianName:       r.GuardianName,
			GuardianOccupation: r.GuardianOccupation,
			Course:             r.Course,
			DOB:                r.DOB,
			Address:            r.Address,
			ContactNo:          r.ContactNo,
			GuardianContactNo:  r.GuardianContactNo,
			Email:              r.Email,
			Category:           r.Category,
			ComputerCourse:     r.ComputerCourse,
			Medium:             r.Medium,
			RegistrationDate:   r.RegistrationDate,
			RegistrationFees:   r.RegistrationFees.String(),
		},
	}
}

// LoadRegistrationNumber fetches the server-issued registration number for
// a new record. No-op in edit mode, where the number already exists.
func (f *RegistrationForm) LoadRegistrationNumber(ctx context.Context) error {
	if f.editID != "" {
		return nil
	}
	number, err := f.api.RegistrationNumber(ctx)
	if err != nil {
		f.logger.Error().Err(err).Msg("failed to fetch registration number")
		return err
	}
	f.mu.Lock()
	f.draft.RegistrationNo = number
	f.mu.Unlock()
	return nil
}

// Draft returns a copy of the current draft.
func (f *RegistrationForm) Draft() RegistrationDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// EditMode reports whether the form updates an existing registration.
func (f *RegistrationForm) EditMode() bool {
	return f.editID != ""
}

// ReadOnly reports whether a field was denormalized from an enquiry and
// cannot be edited in this mode.
func (f *RegistrationForm) ReadOnly(field string) bool {
	return f.readOnly[field]
}

// Set updates one draft field by its form field name. Read-only fields
// reject the edit; a successful edit clears the field's error annotation.
func (f *RegistrationForm) Set(field, value string) error {
	if f.readOnly[field] {
		return apperrors.ErrFieldReadOnly
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case "studentName":
		f.draft.StudentName = value
	case "guardianName":
		f.draft.GuardianName = value
	case "guardianOccupation":
		f.draft.GuardianOccupation = value
	case "course":
		f.draft.Course = value
	case "dob":
		f.draft.DOB = value
	case "address":
		f.draft.Address = value
	case "contactNo":
		f.draft.ContactNo = value
	case "guardianContactNo":
		f.draft.GuardianContactNo = value
	case "email":
		f.draft.Email = value
	case "category":
		f.draft.Category = value
	case "computerCourse":
		f.draft.ComputerCourse = value
	case "medium":
		f.draft.Medium = value
	case "registrationDate":
		f.draft.RegistrationDate = value
	case "registrationFees":
		f.draft.RegistrationFees = value
	default:
		return apperrors.NewAPIError(0, "unknown field: "+field)
	}

	f.clearFieldError(field)
	return nil
}

// validateDraft is a pure function of the draft.
func (f *RegistrationForm) validateDraft() map[string]string {
	errs := map[string]string{}
	if err := f.validate.Struct(f.draft); err != nil {
		errs = translate(err, registrationRules)
	}
	return errs
}

// Submit validates the draft and dispatches the create or update
// operation.
func (f *RegistrationForm) Submit(ctx context.Context) error {
	if err := f.beginSubmit(f.validateDraft); err != nil {
		return err
	}

	draft := f.Draft()
	payload := models.RegistrationPayload{
		RegistrationNo:     draft.RegistrationNo,
		StudentName:        draft.StudentName,
		GuardianName:       draft.GuardianName,
		GuardianOccupation: draft.GuardianOccupation,
		Course:             draft.Course,
		DOB:                draft.DOB,
		Address:            draft.Address,
		ContactNo:          draft.ContactNo,
		GuardianContactNo:  draft.GuardianContactNo,
		Email:              draft.Email,
		Category:           draft.Category,
		ComputerCourse:     draft.ComputerCourse,
		Medium:             draft.Medium,
		RegistrationDate:   draft.RegistrationDate,
		RegistrationFees:   draft.RegistrationFees,
	}

	var err error
	if f.editID != "" {
		_, err = f.api.UpdateRegistration(ctx, f.editID, payload)
	} else {
		_, err = f.api.CreateRegistration(ctx, payload)
	}

	if err != nil {
		f.logger.Error().Err(err).Str("form", "registration").Msg("submission failed")
	}
	f.finishSubmit(err)
	return err
}
