package forms

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ksacademy/backoffice/internal/pkg/apperrors"
	"github.com/ksacademy/backoffice/internal/pkg/credstore"
	"github.com/ksacademy/backoffice/internal/pkg/validation"
)

// LoginDraft holds the login form's fields.
type LoginDraft struct {
	Email    string `validate:"required,loose_email"`
	Password string `validate:"required,min=6"`
}

var loginRules = map[string]fieldRule{
	"Email":    {field: "email", messages: map[string]string{"required": "Email is required", "loose_email": "Please enter a valid email"}},
	"Password": {field: "password", messages: map[string]string{"required": "Password is required", "min": "Password must be at least 6 characters"}},
}

// LoginForm drives authentication. It is the one controller that writes
// the credential store: a successful login persists the returned token.
type LoginForm struct {
	formState
	api      API
	store    credstore.Store
	logger   zerolog.Logger
	validate *validator.Validate
	draft    LoginDraft
}

// NewLoginForm creates a login form.
func NewLoginForm(api API, store credstore.Store, logger zerolog.Logger) *LoginForm {
	return &LoginForm{
		api:      api,
		store:    store,
		logger:   logger,
		validate: validation.NewValidator(),
	}
}

// Set updates one draft field by its form field name.
func (f *LoginForm) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case "email":
		f.draft.Email = value
	case "password":
		f.draft.Password = value
	default:
		return apperrors.NewAPIError(0, "unknown field: "+field)
	}

	f.clearFieldError(field)
	return nil
}

// Draft returns a copy of the current draft.
func (f *LoginForm) Draft() LoginDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *LoginForm) validateDraft() map[string]string {
	errs := map[string]string{}
	if err := f.validate.Struct(f.draft); err != nil {
		errs = translate(err, loginRules)
	}
	return errs
}

// Submit authenticates. Success requires both a truthy envelope status and
// a token in the response; the token is then persisted.
func (f *LoginForm) Submit(ctx context.Context) error {
	if err := f.beginSubmit(f.validateDraft); err != nil {
		return err
	}

	draft := f.Draft()
	err := f.login(ctx, draft.Email, draft.Password)
	if err != nil {
		f.logger.Error().Err(err).Str("form", "login").Msg("login failed")
	}
	f.finishSubmit(err)
	return err
}

func (f *LoginForm) login(ctx context.Context, email, password string) error {
	env, err := f.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if !env.OK() || env.Token == "" {
		if !env.OK() {
			msg := env.Message
			if msg == "" {
				msg = "Invalid credentials or server error"
			}
			return apperrors.NewAPIError(0, msg).WithFields(env.Errors.Flatten())
		}
		return apperrors.ErrTokenMissing
	}

	if err := f.store.Set(ctx, env.Token); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrCredentialStore, err)
	}
	return nil
}

// ForgotPasswordDraft holds the forgot-password form's field.
type ForgotPasswordDraft struct {
	Email string `validate:"required,loose_email"`
}

var forgotRules = map[string]fieldRule{
	"Email": {field: "email", messages: map[string]string{"required": "Email is required", "loose_email": "Please enter a valid email"}},
}

// ForgotPasswordForm requests a reset OTP.
type ForgotPasswordForm struct {
	formState
	api      API
	logger   zerolog.Logger
	validate *validator.Validate
	draft    ForgotPasswordDraft
}

// NewForgotPasswordForm creates a forgot-password form.
func NewForgotPasswordForm(api API, logger zerolog.Logger) *ForgotPasswordForm {
	return &ForgotPasswordForm{
		api:      api,
		logger:   logger,
		validate: validation.NewValidator(),
	}
}

// Set updates one draft field by its form field name.
func (f *ForgotPasswordForm) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if field != "email" {
		return apperrors.NewAPIError(0, "unknown field: "+field)
	}
	f.draft.Email = value
	f.clearFieldError(field)
	return nil
}

// Draft returns a copy of the current draft.
func (f *ForgotPasswordForm) Draft() ForgotPasswordDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *ForgotPasswordForm) validateDraft() map[string]string {
	errs := map[string]string{}
	if err := f.validate.Struct(f.draft); err != nil {
		errs = translate(err, forgotRules)
	}
	return errs
}

// Submit requests the OTP.
func (f *ForgotPasswordForm) Submit(ctx context.Context) error {
	if err := f.beginSubmit(f.validateDraft); err != nil {
		return err
	}

	err := f.request(ctx, f.Draft().Email)
	if err != nil {
		f.logger.Error().Err(err).Str("form", "forgot-password").Msg("request failed")
	}
	f.finishSubmit(err)
	return err
}

func (f *ForgotPasswordForm) request(ctx context.Context, email string) error {
	env, err := f.api.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	if !env.OK() {
		msg := env.Message
		if msg == "" {
			msg = "Failed to send OTP"
		}
		return apperrors.NewAPIError(0, msg).WithFields(env.Errors.Flatten())
	}
	return nil
}

// ResetPasswordDraft holds the reset-password form's fields.
type ResetPasswordDraft struct {
	OTP      string `validate:"required"`
	Password string `validate:"required,min=6"`
}

var resetRules = map[string]fieldRule{
	"OTP":      {field: "otp", messages: map[string]string{"required": "OTP is required"}},
	"Password": {field: "password", messages: map[string]string{"required": "Password is required", "min": "Password must be at least 6 characters"}},
}

// ResetPasswordForm redeems an OTP for a new password.
type ResetPasswordForm struct {
	formState
	api      API
	logger   zerolog.Logger
	validate *validator.Validate
	draft    ResetPasswordDraft
}

// NewResetPasswordForm creates a reset-password form.
func NewResetPasswordForm(api API, logger zerolog.Logger) *ResetPasswordForm {
	return &ResetPasswordForm{
		api:      api,
		logger:   logger,
		validate: validation.NewValidator(),
	}
}

// Set updates one draft field by its form field name.
func (f *ResetPasswordForm) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case "otp":
		f.draft.OTP = value
	case "password":
		f.draft.Password = value
	default:
		return apperrors.NewAPIError(0, "unknown field: "+field)
	}

	f.clearFieldError(field)
	return nil
}

func (f *ResetPasswordForm) validateDraft() map[string]string {
	errs := map[string]string{}
	if err := f.validate.Struct(f.draft); err != nil {
		errs = translate(err, resetRules)
	}
	return errs
}

// Submit redeems the OTP.
func (f *ResetPasswordForm) Submit(ctx context.Context) error {
	if err := f.beginSubmit(f.validateDraft); err != nil {
		return err
	}

	draft := f.draftCopy()
	err := f.reset(ctx, draft.OTP, draft.Password)
	if err != nil {
		f.logger.Error().Err(err).Str("form", "reset-password").Msg("request failed")
	}
	f.finishSubmit(err)
	return err
}

func (f *ResetPasswordForm) draftCopy() ResetPasswordDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *ResetPasswordForm) reset(ctx context.Context, otp, password string) error {
	env, err := f.api.ResetPassword(ctx, otp, password)
	if err != nil {
		return err
	}
	if !env.OK() {
		msg := env.Message
		if msg == "" {
			msg = "Failed to reset password"
		}
		return apperrors.NewAPIError(0, msg).WithFields(env.Errors.Flatten())
	}
	return nil
}

// Logout ends the session: it notifies the backend, then deletes the
// stored token regardless of what the server answered.
func Logout(ctx context.Context, api API, store credstore.Store, logger zerolog.Logger) error {
	if _, err := api.Logout(ctx); err != nil {
		logger.Warn().Err(err).Msg("logout request failed, clearing session anyway")
	}
	if err := store.Delete(ctx); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrCredentialStore, err)
	}
	return nil
}
