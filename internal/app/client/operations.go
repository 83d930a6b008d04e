package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ksacademy/backoffice/internal/app/models"
)

// Operation descriptors. Everything quirky about an endpoint — its verb,
// its encoding, its error-field priority — lives here so the dispatch path
// stays generic. CreateFeesEntry really is a PUT against a collection
// endpoint; that is the server contract, not a mistake to correct.
var (
	opLogin          = operation{name: "login", method: http.MethodPost, path: "/login", encoding: EncodingMultipart, appField: true, errorFields: []string{"password", "email"}}
	opForgotPassword = operation{name: "forgot-password", method: http.MethodPost, path: "/forget-password", encoding: EncodingMultipart, appField: true, errorFields: []string{"email"}}
	opResetPassword  = operation{name: "reset-password", method: http.MethodPost, path: "/reset-password", encoding: EncodingMultipart, appField: true, errorFields: []string{"otp"}}
	opLogout         = operation{name: "logout", method: http.MethodPost, path: "/logout", encoding: EncodingJSON}

	opProfile   = operation{name: "profile", method: http.MethodGet, path: "/profile/true"}
	opDashboard = operation{name: "dashboard-stats", method: http.MethodGet, path: "/dashboard/true"}

	opCreateEnquiry   = operation{name: "create-enquiry", method: http.MethodPost, path: "/enquiry/true", encoding: EncodingMultipart, appField: true}
	opUpdateEnquiry   = operation{name: "update-enquiry", method: http.MethodPut, path: "/enquiry/%s", encoding: EncodingURLEncoded, appField: true}
	opEnquiries       = operation{name: "enquiry-list", method: http.MethodGet, path: "/enquiry-list/true"}
	opEnquiryDetails  = operation{name: "enquiry-details", method: http.MethodGet, path: "/enquiry/%s"}
	opEnquiryRegData  = operation{name: "enquiry-registration-data", method: http.MethodGet, path: "/enquiry-registrations/true/%s"}

	opCreateRegistration  = operation{name: "create-registration", method: http.MethodPost, path: "/registrations/true", encoding: EncodingMultipart, appField: true}
	opUpdateRegistration  = operation{name: "update-registration", method: http.MethodPut, path: "/registration/%s", encoding: EncodingURLEncoded, appField: true}
	opRegistrations       = operation{name: "registration-list", method: http.MethodGet, path: "/registrations-list/true"}
	opRegistrationNumber  = operation{name: "registration-number", method: http.MethodGet, path: "/registrations/number/true"}
	opRegistrationDetails = operation{name: "registration-details", method: http.MethodGet, path: "/registrations/%s?app=true"}

	opCreateFeesEntry = operation{name: "create-fees-entry", method: http.MethodPut, path: "/fee-payments", encoding: EncodingURLEncoded, appField: true}
	opFeeRegNumbers   = operation{name: "fee-registration-numbers", method: http.MethodGet, path: "/fee-registrations-number/true"}
	opPaymentHistory  = operation{name: "payment-history", method: http.MethodGet, path: "/fee-payments/true"}
	opPaymentDetails  = operation{name: "payment-details", method: http.MethodGet, path: "/fee-payments/%s"}

	opCourses     = operation{name: "course-list", method: http.MethodGet, path: "/course-list"}
	opFranchisees = operation{name: "franchisee-list", method: http.MethodGet, path: "/franchisee-list"}
)

// Login authenticates with the backend. The envelope is returned as-is:
// the caller must check both the status flag and the presence of a token
// before treating the login as successful.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Envelope, error) {
	form := url.Values{
		"email":    {email},
		"password": {password},
	}
	return c.do(ctx, opLogin, form)
}

// ForgotPassword requests an OTP for the given address.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*models.Envelope, error) {
	form := url.Values{"email": {email}}
	return c.do(ctx, opForgotPassword, form)
}

// ResetPassword redeems an OTP for a new password.
func (c *Client) ResetPassword(ctx context.Context, otp, password string) (*models.Envelope, error) {
	form := url.Values{
		"otp":      {otp},
		"password": {password},
	}
	return c.do(ctx, opResetPassword, form)
}

// Logout invalidates the session server-side. The envelope is returned
// regardless of its content; the caller deletes the stored token either
// way.
func (c *Client) Logout(ctx context.Context) (*models.Envelope, error) {
	return c.do(ctx, opLogout, nil)
}

// Profile fetches the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (*models.Profile, error) {
	env, err := c.do(ctx, opProfile, nil)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	var profile models.Profile
	if err := decodeData(env, &profile, opProfile.name); err != nil {
		return nil, err
	}
	return &profile, nil
}

// DashboardStats fetches the dashboard counters.
func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	env, err := c.do(ctx, opDashboard, nil)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	var stats models.DashboardStats
	if err := decodeData(env, &stats, opDashboard.name); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreateEnquiry submits a new enquiry.
func (c *Client) CreateEnquiry(ctx context.Context, p models.EnquiryPayload) (*models.Envelope, error) {
	env, err := c.do(ctx, opCreateEnquiry, p.Values())
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	return env, nil
}

// UpdateEnquiry updates an existing enquiry. The identifier travels in
// both the URL path and the body; the backend wants it twice.
func (c *Client) UpdateEnquiry(ctx context.Context, id string, p models.EnquiryPayload) (*models.Envelope, error) {
	form := p.Values()
	form.Set("id", id)
	env, err := c.do(ctx, opUpdateEnquiry, form, id)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	return env, nil
}

// Enquiries fetches the enquiry list.
func (c *Client) Enquiries(ctx context.Context) ([]models.Enquiry, error) {
	env, err := c.do(ctx, opEnquiries, nil)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	var list []models.Enquiry
	if err := decodeData(env, &list, opEnquiries.name); err != nil {
		return nil, err
	}
	return list, nil
}

// EnquiryDetails fetches one enquiry.
func (c *Client) EnquiryDetails(ctx context.Context, id string) (*models.Enquiry, error) {
	env, err := c.do(ctx, opEnquiryDetails, nil, id)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	var enquiry models.Enquiry
	if err := decodeData(env, &enquiry, opEnquiryDetails.name); err != nil {
		return nil, err
	}
	return &enquiry, nil
}

// EnquiryRegistrationData fetches the enquiry fields used to pre-fill a
// registration created from an enquiry.
func (c *Client) EnquiryRegistrationData(ctx context.Context, id string) (*models.Enquiry, error) {
	env, err := c.do(ctx, opEnquiryRegData, nil, id)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	var enquiry models.Enquiry
	if err := decodeData(env, &enquiry, opEnquiryRegData.name); err != nil {
		return nil, err
	}
	return &enquiry, nil
}

// CreateRegistration submits a new registration.
func (c *Client) CreateRegistration(ctx context.Context, p models.RegistrationPayload) (*models.Envelope, error) {
	env, err := c.do(ctx, opCreateRegistration, p.Values())
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	return env, nil
}

// UpdateRegistration updates an existing registration, identifier in both
// path and body.
func (c *Client) UpdateRegistration(ctx context.Context, id string, p models.RegistrationPayload) (*models.Envelope, error) {
	form := p.Values()
	form.Set("id", id)
	env, err := c.do(ctx, opUpdateRegistration, form, id)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	return env, nil
}

// Registrations fetches the registration list.
func (c *Client) Registrations(ctx context.Context) ([]models.Registration, error) {
	env, err := c.do(ctx, opRegistrations, nil)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	var list []models.Registration
	if err := decodeData(env, &list, opRegistrations.name); err != nil {
		return nil, err
	}
	return list, nil
}

// RegistrationNumber fetches the next server-issued registration number,
// requested before a registration is created.
func (c *Client) RegistrationNumber(ctx context.Context) (string, error) {
	env, err := c.do(ctx, opRegistrationNumber, nil)
	if err != nil {
		return "", err
	}
	if !env.OK() {
		return "", envelopeError(env)
	}

	var number string
	if err := json.Unmarshal(env.Data, &number); err == nil {
		return number, nil
	}
	var n json.Number
	if err := json.Unmarshal(env.Data, &n); err != nil {
		return "", fmt.Errorf("decode %s data: %w", opRegistrationNumber.name, err)
	}
	return n.String(), nil
}

// RegistrationDetails fetches one registration.
func (c *Client) RegistrationDetails(ctx context.Context, id string) (*models.Registration, error) {
	env, err := c.do(ctx, opRegistrationDetails, nil, id)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	var reg models.Registration
	if err := decodeData(env, &reg, opRegistrationDetails.name); err != nil {
		return nil, err
	}
	return &reg, nil
}

// CreateFeesEntry records a payment against a registration.
func (c *Client) CreateFeesEntry(ctx context.Context, p models.FeesPayload) (*models.Envelope, error) {
	env, err := c.do(ctx, opCreateFeesEntry, p.Values())
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	return env, nil
}

// FeeRegistrationNumbers fetches the registration lookup for the fee form,
// each entry carrying the snapshot used to pre-fill it.
func (c *Client) FeeRegistrationNumbers(ctx context.Context) ([]models.FeeRegistrationOption, error) {
	env, err := c.do(ctx, opFeeRegNumbers, nil)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	var options []models.FeeRegistrationOption
	if err := decodeData(env, &options, opFeeRegNumbers.name); err != nil {
		return nil, err
	}
	return options, nil
}

// PaymentHistory fetches all recorded fee payments.
func (c *Client) PaymentHistory(ctx context.Context) ([]models.FeePayment, error) {
	env, err := c.do(ctx, opPaymentHistory, nil)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	var payments []models.FeePayment
	if err := decodeData(env, &payments, opPaymentHistory.name); err != nil {
		return nil, err
	}
	return payments, nil
}

// PaymentDetails fetches one payment.
func (c *Client) PaymentDetails(ctx context.Context, id string) (*models.FeePayment, error) {
	env, err := c.do(ctx, opPaymentDetails, nil, id)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	var payment models.FeePayment
	if err := decodeData(env, &payment, opPaymentDetails.name); err != nil {
		return nil, err
	}
	return &payment, nil
}

// Courses fetches the course lookup list.
func (c *Client) Courses(ctx context.Context) ([]models.Option, error) {
	env, err := c.do(ctx, opCourses, nil)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	var options []models.Option
	if err := decodeData(env, &options, opCourses.name); err != nil {
		return nil, err
	}
	return options, nil
}

// Franchisees fetches the franchisee lookup list.
func (c *Client) Franchisees(ctx context.Context) ([]models.Option, error) {
	env, err := c.do(ctx, opFranchisees, nil)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, envelopeError(env)
	}
	var options []models.Option
	if err := decodeData(env, &options, opFranchisees.name); err != nil {
		return nil, err
	}
	return options, nil
}

// decodeData unmarshals the envelope's data into out. An empty data field
// leaves out untouched.
func decodeData(env *models.Envelope, out interface{}, opName string) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", opName, err)
	}
	return nil
}
