package models

import (
	"encoding/json"
	"testing"
)

func TestStatusFlagAcceptedForms(t *testing.T) {
	// Success arrives as boolean true, numeric 200/201, or string "true"
	// depending on the endpoint; all four must read as success.
	accepted := []string{`true`, `200`, `201`, `"true"`}
	for _, raw := range accepted {
		var env Envelope
		if err := json.Unmarshal([]byte(`{"status":`+raw+`}`), &env); err != nil {
			t.Fatalf("unmarshal with status %s failed: %v", raw, err)
		}
		if !env.OK() {
			t.Errorf("status %s must read as success", raw)
		}
		if !env.Status.Recognized() {
			t.Errorf("status %s must be recognized", raw)
		}
	}
}

func TestStatusFlagRejectedForms(t *testing.T) {
	rejected := []string{`false`, `"false"`, `0`, `500`, `"ok"`, `"TRUE"`, `1`, `null`}
	for _, raw := range rejected {
		var env Envelope
		if err := json.Unmarshal([]byte(`{"status":`+raw+`}`), &env); err != nil {
			t.Fatalf("unmarshal with status %s failed: %v", raw, err)
		}
		if env.OK() {
			t.Errorf("status %s must not read as success", raw)
		}
	}
}

func TestStatusFlagUnrecognizedIsFlagged(t *testing.T) {
	var env Envelope
	if err := json.Unmarshal([]byte(`{"status":"maybe"}`), &env); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if env.Status.Recognized() {
		t.Errorf("unexpected raw status %q must not count as recognized", env.Status.Raw())
	}
	if env.OK() {
		t.Errorf("unrecognized status must not be coerced to success")
	}
}

func TestStatusFlagAbsent(t *testing.T) {
	var env Envelope
	if err := json.Unmarshal([]byte(`{"message":"hi"}`), &env); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if env.OK() {
		t.Errorf("absent status must not read as success")
	}
	if !env.Status.Recognized() {
		t.Errorf("absent status is not an anomaly to flag")
	}
}

func TestFieldMessageStringAndArray(t *testing.T) {
	var errs FieldErrors
	body := `{"password":["The password is wrong","too short"],"email":"Unknown address","otp":[]}`
	if err := json.Unmarshal([]byte(body), &errs); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got := errs["password"]; got != "The password is wrong" {
		t.Errorf("array form: got %q", got)
	}
	if got := errs["email"]; got != "Unknown address" {
		t.Errorf("string form: got %q", got)
	}
	if got := errs["otp"]; got != "" {
		t.Errorf("empty array form: got %q", got)
	}
}

func TestAmountTolerantForms(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{`5000`, 5000},
		{`5000.5`, 5000.5},
		{`"5000"`, 5000},
		{`" 2500 "`, 2500},
		{`""`, 0},
		{`null`, 0},
		{`"n/a"`, 0},
	}
	for _, tc := range cases {
		var a Amount
		if err := json.Unmarshal([]byte(tc.raw), &a); err != nil {
			t.Fatalf("unmarshal %s failed: %v", tc.raw, err)
		}
		if float64(a) != tc.want {
			t.Errorf("amount %s: got %v, want %v", tc.raw, float64(a), tc.want)
		}
	}
}

func TestAmountString(t *testing.T) {
	if got := Amount(5000).String(); got != "5000" {
		t.Errorf("got %q", got)
	}
	if got := Amount(2500.5).String(); got != "2500.5" {
		t.Errorf("got %q", got)
	}
}
