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

// EnquiryDraft is the unsaved enquiry a controller holds while editing.
type EnquiryDraft struct {
	Date           string
	StudentName    string `validate:"required"`
	ContactNumber  string `validate:"required,contact"`
	WhatsappNumber string `validate:"omitempty,contact"`
	CourseEnquiry  string `validate:"required"`
	ModeOfRef      string
	Place          string
	CounsellorName string
	Franchisee     string `validate:"required"`
	Remarks        string
	FollowUp1      string
	FollowUp2      string
	FollowUp3      string
}

var enquiryRules = map[string]fieldRule{
	"StudentName":    {field: "studentName", messages: map[string]string{"required": "Student name is required"}},
	"ContactNumber":  {field: "contactNumber", messages: map[string]string{"required": "Contact number is required", "contact": "Contact number must be 10 digits"}},
	"WhatsappNumber": {field: "whatsappNumber", messages: map[string]string{"contact": "WhatsApp number must be 10 digits"}},
	"CourseEnquiry":  {field: "courseEnquiry", messages: map[string]string{"required": "Course selection is required"}},
	"Franchisee":     {field: "franchisee", messages: map[string]string{"required": "Franchisee selection is required"}},
}

// EnquiryForm drives the enquiry create/edit flow.
type EnquiryForm struct {
	formState
	api      API
	logger   zerolog.Logger
	validate *validator.Validate
	draft    EnquiryDraft
	editID   string
}

// NewEnquiryForm creates an enquiry form in create mode, dated today.
func NewEnquiryForm(api API, logger zerolog.Logger) *EnquiryForm {
	return &EnquiryForm{
		api:      api,
		logger:   logger,
		validate: validation.NewValidator(),
		draft: EnquiryDraft{
			Date: time.Now().Format("2006-01-02"),
		},
	}
}

// NewEnquiryEditForm creates an enquiry form in edit mode, seeded from an
// existing record.
func NewEnquiryEditForm(api API, logger zerolog.Logger, e models.Enquiry) *EnquiryForm {
	return &EnquiryForm{
		api:      api,
		logger:   logger,
		validate: validation.NewValidator(),
		editID:   e.ID.String(),
		draft: EnquiryDraft{
			Date:           e.Date,
			StudentName:    e.StudentName,
			ContactNumber:  e.ContactNumber,
			WhatsappNumber: e.WhatsappNumber,
			CourseEnquiry:  e.Course,
			ModeOfRef:      e.ModeOfRef,
			Place:          e.Place,
			CounsellorName: e.CounsellorName,
			Franchisee:     e.Franchisee,
			Remarks:        e.Remarks,
			FollowUp1:      e.FollowUp1,
			FollowUp2:      e.FollowUp2,
			FollowUp3:      e.FollowUp3,
		},
	}
}

// Draft returns a copy of the current draft.
func (f *EnquiryForm) Draft() EnquiryDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// EditMode reports whether the form updates an existing enquiry.
func (f *EnquiryForm) EditMode() bool {
	return f.editID != ""
}

// Set updates one draft field by its form field name and clears that
// field's error annotation.
func (f *EnquiryForm) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case "date":
		f.draft.Date = value
	case "studentName":
		f.draft.StudentName = value
	case "contactNumber":
		f.draft.ContactNumber = value
	case "whatsappNumber":
		f.draft.WhatsappNumber = value
	case "courseEnquiry":
		f.draft.CourseEnquiry = value
	case "modeOfReference":
		f.draft.ModeOfRef = value
	case "place":
		f.draft.Place = value
	case "counsellorName":
		f.draft.CounsellorName = value
	case "franchisee":
		f.draft.Franchisee = value
	case "remarks":
		f.draft.Remarks = value
	case "followUp1":
		f.draft.FollowUp1 = value
	case "followUp2":
		f.draft.FollowUp2 = value
	case "followUp3":
		f.draft.FollowUp3 = value
	default:
		return apperrors.NewAPIError(0, "unknown field: "+field)
	}

	f.clearFieldError(field)
	return nil
}

// validateDraft is a pure function of the draft; calling it twice on an
// unchanged draft yields identical error sets.
func (f *EnquiryForm) validateDraft() map[string]string {
	errs := map[string]string{}
	if err := f.validate.Struct(f.draft); err != nil {
		errs = translate(err, enquiryRules)
	}

	// Follow-ups are staged: the third slot only opens once the second is
	// used. The server does not enforce this.
	if f.draft.FollowUp3 != "" && f.draft.FollowUp2 == "" {
		errs["followUp3"] = "Follow up 3 requires follow up 2"
	}

	return errs
}

// Submit validates the draft and dispatches the create or update
// operation. Validation failure annotates fields and makes no network
// call; a second Submit while one is outstanding is rejected.
func (f *EnquiryForm) Submit(ctx context.Context) error {
	if err := f.beginSubmit(f.validateDraft); err != nil {
		return err
	}

	draft := f.Draft()
	payload := models.EnquiryPayload{
		Date:           draft.Date,
		StudentName:    draft.StudentName,
		ContactNumber:  draft.ContactNumber,
		WhatsappNumber: draft.WhatsappNumber,
		CourseEnquiry:  draft.CourseEnquiry,
		ModeOfRef:      draft.ModeOfRef,
		Place:          draft.Place,
		CounsellorName: draft.CounsellorName,
		Franchisee:     draft.Franchisee,
		Remarks:        draft.Remarks,
		FollowUp1:      draft.FollowUp1,
		FollowUp2:      draft.FollowUp2,
		FollowUp3:      draft.FollowUp3,
	}

	var err error
	if f.editID != "" {
		_, err = f.api.UpdateEnquiry(ctx, f.editID, payload)
	} else {
		_, err = f.api.CreateEnquiry(ctx, payload)
	}

	if err != nil {
		f.logger.Error().Err(err).Str("form", "enquiry").Msg("submission failed")
	}
	f.finishSubmit(err)
	return err
}
