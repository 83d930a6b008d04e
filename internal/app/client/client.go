// Package client implements the resilient API access layer: request
// construction per operation descriptor, bearer-token attachment, response
// normalization, and uniform error mapping for the back-office REST API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ksacademy/backoffice/internal/app/models"
	"github.com/ksacademy/backoffice/internal/config"
	"github.com/ksacademy/backoffice/internal/pkg/apperrors"
	"github.com/ksacademy/backoffice/internal/pkg/credstore"
)

// Encoding selects how an operation's payload travels on the wire.
type Encoding int

// Body encodings used across the API. The choice is per endpoint, not per
// verb: the backend expects specific encodings for specific operations.
const (
	EncodingNone Encoding = iota
	EncodingMultipart
	EncodingURLEncoded
	EncodingJSON
)

// operation is the declarative per-operation descriptor consumed by the
// generic dispatch path: endpoint template, verb, payload encoding, and
// the call site's envelope error-field priority.
type operation struct {
	name     string
	method   string
	path     string // fmt template when the endpoint embeds an identifier
	encoding Encoding
	// appField appends the literal field app=true the backend requires on
	// form submissions.
	appField bool
	// errorFields is this call site's priority order for the envelope's
	// errors map; it is data, not a universal rule.
	errorFields []string
}

// Client is the injectable API gateway. It is constructed once at process
// start and passed by reference to the form controllers; tests substitute
// the base URL with a fake server.
type Client struct {
	baseURL string
	http    *http.Client
	store   credstore.Store
	logger  zerolog.Logger
}

// New creates a Client from configuration. The credential store is only
// ever read here; login and logout mutate it from the form layer.
func New(cfg *config.Config, store credstore.Store, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout()},
		store:   store,
		logger:  logger,
	}
}

// do executes one operation: builds the request per the descriptor,
// attaches the bearer token when one is stored, sends, and normalizes the
// response. Non-2xx responses come back as *apperrors.APIError.
func (c *Client) do(ctx context.Context, op operation, form url.Values, pathArgs ...interface{}) (*models.Envelope, error) {
	path := op.path
	if len(pathArgs) > 0 {
		path = fmt.Sprintf(op.path, pathArgs...)
	}

	if op.appField {
		if form == nil {
			form = url.Values{}
		}
		form.Set("app", "true")
	}

	body, contentType, err := encodeBody(op.encoding, form)
	if err != nil {
		return nil, fmt.Errorf("encode %s request body: %w", op.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, op.method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op.name, err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	// Token absence is not an error; login and the password flows are
	// unauthenticated.
	token, err := c.store.Get(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to read stored token")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.logger.With().
		Str("request_id", uuid.NewString()).
		Str("op", op.name).
		Str("method", op.method).
		Str("path", path).
		Logger()

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("request failed")
		return nil, fmt.Errorf("%s: %w", op.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", op.name, err)
	}

	env, parsed := decodeBody(raw, resp.StatusCode)
	log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Bool("parsed", parsed).
		Msg("request completed")

	if !env.Status.Recognized() {
		log.Warn().Str("raw_status", env.Status.Raw()).Msg("unrecognized status value in response envelope")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, env, op.errorFields)
	}
	return env, nil
}

// encodeBody serializes form fields per the operation's encoding.
func encodeBody(encoding Encoding, form url.Values) (io.Reader, string, error) {
	switch encoding {
	case EncodingMultipart:
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)
		for _, key := range sortedKeys(form) {
			for _, value := range form[key] {
				if err := w.WriteField(key, value); err != nil {
					return nil, "", err
				}
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return buf, w.FormDataContentType(), nil

	case EncodingURLEncoded:
		return strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", nil

	case EncodingJSON:
		// The only JSON operation (logout) sends no body; the header alone
		// is what the backend expects.
		return nil, "application/json", nil

	default:
		return nil, "", nil
	}
}

// sortedKeys returns form keys in a stable order.
func sortedKeys(form url.Values) []string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// statusError maps a non-2xx response to an APIError, preferring the call
// site's field-specific messages, then the top-level message, then a
// generic HTTP fallback.
func statusError(code int, env *models.Envelope, errorFields []string) error {
	for _, field := range errorFields {
		if msg, ok := env.Errors[field]; ok && msg != "" {
			return apperrors.NewAPIError(code, string(msg)).WithFields(env.Errors.Flatten())
		}
	}
	if env.Message != "" {
		return apperrors.NewAPIError(code, env.Message).WithFields(env.Errors.Flatten())
	}
	return apperrors.NewAPIError(code, fmt.Sprintf("HTTP %d: %s", code, http.StatusText(code)))
}

// envelopeError maps a 2xx response whose envelope status is falsy to the
// same APIError type callers see for transport-level failures.
func envelopeError(env *models.Envelope) error {
	msg := env.Message
	if msg == "" {
		msg = "request failed"
	}
	return apperrors.NewAPIError(0, msg).WithFields(env.Errors.Flatten())
}
