package client

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeBodyEntityMangledJSON(t *testing.T) {
	// The backend emits entity-encoded JSON; decoding it must match a
	// manual entity-decode followed by a normal parse.
	raw := "\ufeff{&quot;status&quot;:true,&quot;message&quot;:&quot;A &amp; B &lt;ok&gt;&quot;,&quot;data&quot;:[1,2]}"

	env, parsed := decodeBody([]byte(raw), 200)
	if !parsed {
		t.Fatalf("expected body to parse after cleaning")
	}
	if !env.OK() {
		t.Errorf("expected truthy status, got raw %q", env.Status.Raw())
	}
	if env.Message != "A & B <ok>" {
		t.Errorf("unexpected message: %q", env.Message)
	}

	var data []int
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if len(data) != 2 || data[0] != 1 || data[1] != 2 {
		t.Errorf("unexpected data: %v", data)
	}
}

func TestDecodeBodyStripsBOMOnly(t *testing.T) {
	env, parsed := decodeBody([]byte("\ufeff{\"status\":\"true\"}"), 200)
	if !parsed {
		t.Fatalf("expected body to parse")
	}
	if !env.OK() {
		t.Errorf("expected truthy status")
	}
}

func TestDecodeBodyNonJSONSuccess(t *testing.T) {
	// A non-JSON 200 must degrade to a diagnostic payload, not an error.
	body := "<html><body>Whitelabel Error Page</body></html>"

	env, parsed := decodeBody([]byte(body), 200)
	if parsed {
		t.Fatalf("expected parse failure for HTML body")
	}
	if !strings.HasPrefix(env.Message, invalidJSONPrefix) {
		t.Fatalf("expected diagnostic prefix, got %q", env.Message)
	}
	if !strings.Contains(env.Message, "<html>") {
		t.Errorf("expected message to carry a body prefix, got %q", env.Message)
	}
	if env.OK() {
		t.Errorf("synthetic payload must not read as success")
	}
}

func TestDecodeBodyNonJSONTruncates(t *testing.T) {
	body := strings.Repeat("x", 500)

	env, _ := decodeBody([]byte(body), 200)
	want := invalidJSONPrefix + strings.Repeat("x", diagnosticLimit) + "..."
	if env.Message != want {
		t.Errorf("expected truncation at %d characters, got %q", diagnosticLimit, env.Message)
	}
}

func TestDecodeBodyNonJSONFailureStatus(t *testing.T) {
	// On a failure status the caller raises an HTTP error; the normalizer
	// must not fabricate a message for it to trust.
	env, parsed := decodeBody([]byte("Bad Gateway"), 502)
	if parsed {
		t.Fatalf("expected parse failure")
	}
	if env.Message != "" {
		t.Errorf("expected empty envelope on failure status, got message %q", env.Message)
	}
}
