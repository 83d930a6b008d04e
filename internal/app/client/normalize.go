package client

import (
	"encoding/json"
	"strings"

	"github.com/ksacademy/backoffice/internal/app/models"
)

// invalidJSONPrefix opens the synthetic message built for unparseable
// success responses.
const invalidJSONPrefix = "Server returned invalid JSON: "

// diagnosticLimit is how much of an unparseable body the synthetic message
// keeps.
const diagnosticLimit = 100

// entityReplacer undoes the HTML entity encoding the backend is known to
// apply to JSON string content.
var entityReplacer = strings.NewReplacer(
	"&quot;", `"`,
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// cleanBody strips a leading byte-order mark, decodes the four known HTML
// entities, and trims surrounding whitespace.
func cleanBody(raw []byte) string {
	s := strings.TrimPrefix(string(raw), "\ufeff")
	s = entityReplacer.Replace(s)
	return strings.TrimSpace(s)
}

// decodeBody normalizes a raw response body into an envelope. It never
// surfaces a parse error: an unparseable body under a success status
// yields a synthetic diagnostic envelope, and under a failure status
// yields an empty envelope so the caller raises a status-code error
// instead of trusting the body.
func decodeBody(raw []byte, httpStatus int) (*models.Envelope, bool) {
	cleaned := cleanBody(raw)

	var env models.Envelope
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		if httpStatus >= 200 && httpStatus < 300 {
			return &models.Envelope{
				Message: invalidJSONPrefix + truncate(cleaned, diagnosticLimit) + "...",
			}, false
		}
		return &models.Envelope{}, false
	}
	return &env, true
}

// truncate returns the first n bytes of s.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
