package forms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ksacademy/backoffice/internal/app/models"
	"github.com/ksacademy/backoffice/internal/pkg/apperrors"
)

func feesFormWithOption(t *testing.T, api *fakeAPI) *FeesForm {
	t.Helper()
	if api.feeOptions == nil {
		api.feeOptions = []models.FeeRegistrationOption{
			{
				RegistrationNo: "REG-1042",
				StudentName:    "Asha Nair",
				Course:         "KTET",
				TotalFees:      12000,
				DueFees:        5000,
			},
		}
	}
	f := NewFeesForm(api, zerolog.Nop())
	if _, err := f.LoadRegistrations(context.Background()); err != nil {
		t.Fatalf("LoadRegistrations: %v", err)
	}
	if err := f.SelectRegistration("REG-1042"); err != nil {
		t.Fatalf("SelectRegistration: %v", err)
	}
	return f
}

func TestFeesDueDerivation(t *testing.T) {
	f := feesFormWithOption(t, &fakeAPI{})

	// Selecting pre-filled the due snapshot as the total.
	if got := f.Draft().TotalFees; got != "5000" {
		t.Fatalf("TotalFees after select = %q, want 5000", got)
	}

	if err := f.Set("paidFees", "2000"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := f.Draft().DueFees; got != "3000" {
		t.Fatalf("DueFees = %q, want 3000", got)
	}

	// Derivation floors at zero instead of going negative.
	if err := f.Set("paidFees", "6000"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := f.Draft().DueFees; got != "0" {
		t.Fatalf("DueFees = %q, want 0", got)
	}

	// Re-setting the same value leaves the derivation unchanged.
	if err := f.Set("paidFees", "6000"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := f.Draft().DueFees; got != "0" {
		t.Fatalf("DueFees after re-set = %q, want 0", got)
	}

	// Malformed amounts count as zero rather than breaking the projection.
	if err := f.Set("paidFees", "12x"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := f.Draft().DueFees; got != "5000" {
		t.Fatalf("DueFees with malformed paid = %q, want 5000", got)
	}
}

func TestFeesSelectPrefillsSnapshot(t *testing.T) {
	f := feesFormWithOption(t, &fakeAPI{})
	draft := f.Draft()
	if draft.StudentName != "Asha Nair" || draft.Course != "KTET" {
		t.Fatalf("snapshot = %q/%q, want Asha Nair/KTET", draft.StudentName, draft.Course)
	}
	if draft.RegistrationNo != "REG-1042" {
		t.Fatalf("RegistrationNo = %q", draft.RegistrationNo)
	}
}

func TestFeesSelectFallsBackToTotal(t *testing.T) {
	api := &fakeAPI{feeOptions: []models.FeeRegistrationOption{
		{RegistrationNo: "REG-7", StudentName: "Biju", Course: "SET", TotalFees: 8000, DueFees: 0},
	}}
	f := NewFeesForm(api, zerolog.Nop())
	if _, err := f.LoadRegistrations(context.Background()); err != nil {
		t.Fatalf("LoadRegistrations: %v", err)
	}
	if err := f.SelectRegistration("REG-7"); err != nil {
		t.Fatalf("SelectRegistration: %v", err)
	}
	if got := f.Draft().TotalFees; got != "8000" {
		t.Fatalf("TotalFees = %q, want 8000 (total fallback)", got)
	}
}

func TestFeesOverpaymentRejected(t *testing.T) {
	api := &fakeAPI{}
	f := feesFormWithOption(t, api)
	for field, value := range map[string]string{
		"paidFees":    "6000",
		"paidThrough": "Cash",
		"receivedBy":  "Admin",
	} {
		if err := f.Set(field, value); err != nil {
			t.Fatalf("Set(%q): %v", field, err)
		}
	}

	err := f.Submit(context.Background())
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("Submit: %v, want ErrValidationFailed", err)
	}
	if got := f.FieldError("paidFees"); got != "Paid fees cannot exceed total fees" {
		t.Fatalf("paidFees error = %q", got)
	}
	if api.callCount("create-fees-entry") != 0 {
		t.Fatal("overpayment must not reach the network")
	}
	if f.State() != StateEditing {
		t.Fatalf("state = %v, want editing", f.State())
	}
}

func TestFeesSubmitPayload(t *testing.T) {
	api := &fakeAPI{}
	f := feesFormWithOption(t, api)
	for field, value := range map[string]string{
		"date":        "2026-08-15",
		"paidFees":    "2500",
		"paidThrough": "UPI",
		"receivedBy":  "Front Office",
	} {
		if err := f.Set(field, value); err != nil {
			t.Fatalf("Set(%q): %v", field, err)
		}
	}

	if err := f.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if f.State() != StateSucceeded {
		t.Fatalf("state = %v, want succeeded", f.State())
	}

	got := api.lastFees
	if got.RegistrationNo != "REG-1042" || got.PaidFees != "2500" ||
		got.PaidThrough != "UPI" || got.ReceivedBy != "Front Office" {
		t.Fatalf("payload = %+v", got)
	}
	want := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	if !got.FeeDate.Equal(want) {
		t.Fatalf("FeeDate = %v, want %v", got.FeeDate, want)
	}
}

func TestFeesNonNumericAmountRejected(t *testing.T) {
	api := &fakeAPI{}
	f := feesFormWithOption(t, api)
	for field, value := range map[string]string{
		"paidFees":    "abc",
		"paidThrough": "Cash",
		"receivedBy":  "Admin",
	} {
		if err := f.Set(field, value); err != nil {
			t.Fatalf("Set(%q): %v", field, err)
		}
	}

	if err := f.Submit(context.Background()); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("Submit: %v", err)
	}
	if got := f.FieldError("paidFees"); got != "Paid fees must be a valid number" {
		t.Fatalf("paidFees error = %q", got)
	}
	if api.callCount("create-fees-entry") != 0 {
		t.Fatal("invalid draft must not be submitted")
	}
}

func TestFeesUnknownRegistration(t *testing.T) {
	f := NewFeesForm(&fakeAPI{}, zerolog.Nop())
	if _, err := f.LoadRegistrations(context.Background()); err != nil {
		t.Fatalf("LoadRegistrations: %v", err)
	}
	if err := f.SelectRegistration("REG-404"); err == nil {
		t.Fatal("expected error for unknown registration number")
	}
}
