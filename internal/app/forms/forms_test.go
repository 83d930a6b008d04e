package forms

import (
	"context"
	"sync"

	"github.com/ksacademy/backoffice/internal/app/models"
)

// fakeAPI substitutes the gateway in controller tests. It records the last
// payload of each mutating operation and can be made to fail or block.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	err   error // returned by every operation when set
	block chan struct{}

	envelope   *models.Envelope
	regNumber  string
	feeOptions []models.FeeRegistrationOption

	lastEnquiry      models.EnquiryPayload
	lastRegistration models.RegistrationPayload
	lastFees         models.FeesPayload
	lastUpdateID     string
}

func okEnvelope() *models.Envelope {
	return &models.Envelope{Status: models.StatusOK()}
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeAPI) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) env() *models.Envelope {
	if f.envelope != nil {
		return f.envelope
	}
	return okEnvelope()
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*models.Envelope, error) {
	f.record("login")
	return f.env(), f.err
}

func (f *fakeAPI) ForgotPassword(ctx context.Context, email string) (*models.Envelope, error) {
	f.record("forgot-password")
	return f.env(), f.err
}

func (f *fakeAPI) ResetPassword(ctx context.Context, otp, password string) (*models.Envelope, error) {
	f.record("reset-password")
	return f.env(), f.err
}

func (f *fakeAPI) Logout(ctx context.Context) (*models.Envelope, error) {
	f.record("logout")
	return f.env(), f.err
}

func (f *fakeAPI) CreateEnquiry(ctx context.Context, p models.EnquiryPayload) (*models.Envelope, error) {
	f.record("create-enquiry")
	f.lastEnquiry = p
	return f.env(), f.err
}

func (f *fakeAPI) UpdateEnquiry(ctx context.Context, id string, p models.EnquiryPayload) (*models.Envelope, error) {
	f.record("update-enquiry")
	f.lastEnquiry = p
	f.lastUpdateID = id
	return f.env(), f.err
}

func (f *fakeAPI) CreateRegistration(ctx context.Context, p models.RegistrationPayload) (*models.Envelope, error) {
	f.record("create-registration")
	f.lastRegistration = p
	return f.env(), f.err
}

func (f *fakeAPI) UpdateRegistration(ctx context.Context, id string, p models.RegistrationPayload) (*models.Envelope, error) {
	f.record("update-registration")
	f.lastRegistration = p
	f.lastUpdateID = id
	return f.env(), f.err
}

func (f *fakeAPI) RegistrationNumber(ctx context.Context) (string, error) {
	f.record("registration-number")
	return f.regNumber, f.err
}

func (f *fakeAPI) CreateFeesEntry(ctx context.Context, p models.FeesPayload) (*models.Envelope, error) {
	f.record("create-fees-entry")
	f.lastFees = p
	return f.env(), f.err
}

func (f *fakeAPI) FeeRegistrationNumbers(ctx context.Context) ([]models.FeeRegistrationOption, error) {
	f.record("fee-registration-numbers")
	return f.feeOptions, f.err
}

func (f *fakeAPI) Courses(ctx context.Context) ([]models.Option, error) {
	f.record("course-list")
	return nil, f.err
}

func (f *fakeAPI) Franchisees(ctx context.Context) ([]models.Option, error) {
	f.record("franchisee-list")
	return nil, f.err
}
