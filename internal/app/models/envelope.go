package models

import (
	"encoding/json"
	"strings"
)

// Envelope is the top-level response object every endpoint returns.
// Data is kept raw so each operation can decode it into its own type.
type Envelope struct {
	Status  StatusFlag      `json:"status"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
	Errors  FieldErrors     `json:"errors"`
}

// OK reports whether the envelope signals success.
func (e *Envelope) OK() bool {
	return e.Status.OK()
}

// StatusFlag normalizes the envelope's polymorphic status field. The
// backend encodes success as boolean true, string "true", or the numbers
// 200 and 201 depending on the endpoint; only those exact forms count as
// success, everything else decodes as failure and keeps its raw value for
// diagnostics.
type StatusFlag struct {
	ok  bool
	raw string
}

var statusTrue = StatusFlag{ok: true, raw: "true"}

// StatusOK returns a StatusFlag representing success.
func StatusOK() StatusFlag {
	return statusTrue
}

// OK reports whether the raw status was in the success allow-list.
func (s StatusFlag) OK() bool {
	return s.ok
}

// Raw returns the raw JSON text the status decoded from.
func (s StatusFlag) Raw() string {
	return s.raw
}

// Recognized reports whether the raw status was one of the documented
// encodings (success allow-list, or a plain falsy form). Unrecognized
// values are flagged by the gateway instead of silently coerced.
func (s StatusFlag) Recognized() bool {
	if s.ok || s.raw == "" {
		return true
	}
	switch s.raw {
	case "false", `"false"`, "0", "null":
		return true
	}
	return false
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *StatusFlag) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	s.raw = raw
	switch raw {
	case "true", `"true"`, "200", "201":
		s.ok = true
	default:
		s.ok = false
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s StatusFlag) MarshalJSON() ([]byte, error) {
	if s.raw != "" {
		return []byte(s.raw), nil
	}
	if s.ok {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// FieldErrors is the envelope's per-field error map. Values arrive either
// as plain strings or as one-element arrays depending on the endpoint.
type FieldErrors map[string]FieldMessage

// Flatten converts the map to plain strings.
func (f FieldErrors) Flatten() map[string]string {
	if len(f) == 0 {
		return nil
	}
	out := make(map[string]string, len(f))
	for k, v := range f {
		out[k] = string(v)
	}
	return out
}

// FieldMessage is a single field error that tolerates both string and
// array-of-string encodings, keeping the first entry of an array.
type FieldMessage string

// UnmarshalJSON implements json.Unmarshaler.
func (m *FieldMessage) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*m = FieldMessage(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		if len(list) > 0 {
			*m = FieldMessage(list[0])
		} else {
			*m = ""
		}
		return nil
	}

	*m = FieldMessage(strings.TrimSpace(string(b)))
	return nil
}
