package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func safetyServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method mismatch: %s", r.Method)
		}
		w.Write([]byte(body))
	}))
}

func TestSafetyCheckGood(t *testing.T) {
	server := safetyServer(t, `{"status": "Good", "bundled": false}`)
	defer server.Close()

	checker := NewSafetyChecker(SafetyConfig{
		RequiredStatus: "Good",
		APIURL:         server.URL,
		APIToken:       "token",
	}, nil)

	if got := checker.Check(context.Background(), "0xA"); !got.OK() {
		t.Fatalf("expected acceptance, got %s (%s)", got.Verdict, got.Reason)
	}
}

func TestSafetyCheckStatusMismatch(t *testing.T) {
	server := safetyServer(t, `{"status": "Warning", "bundled": false}`)
	defer server.Close()

	checker := NewSafetyChecker(SafetyConfig{APIURL: server.URL, APIToken: "token"}, nil)

	got := checker.Check(context.Background(), "0xA")
	if got.Verdict != RejectedByPolicy {
		t.Fatalf("expected policy rejection, got %s", got.Verdict)
	}
}

func TestSafetyCheckBundled(t *testing.T) {
	server := safetyServer(t, `{"status": "Good", "bundled": true}`)
	defer server.Close()

	checker := NewSafetyChecker(SafetyConfig{APIURL: server.URL, APIToken: "token"}, nil)

	got := checker.Check(context.Background(), "0xA")
	if got.Verdict != RejectedByPolicy {
		t.Fatalf("expected policy rejection, got %s", got.Verdict)
	}
}

func TestSafetyCheckIncompleteConfig(t *testing.T) {
	cases := []struct {
		name  string
		cfg   SafetyConfig
		token string
	}{
		{"missing url", SafetyConfig{APIToken: "token"}, "0xA"},
		{"missing token", SafetyConfig{APIURL: "https://rugcheck.example"}, "0xA"},
		{"missing address", SafetyConfig{APIURL: "https://rugcheck.example", APIToken: "token"}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			checker := NewSafetyChecker(tc.cfg, nil)
			got := checker.Check(context.Background(), tc.token)
			if got.Verdict != RejectedByFailure {
				t.Fatalf("expected failure rejection, got %s", got.Verdict)
			}
		})
	}
}

func TestSafetyCheckProviderFailureFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	checker := NewSafetyChecker(SafetyConfig{APIURL: server.URL, APIToken: "token"}, nil)

	got := checker.Check(context.Background(), "0xA")
	if got.Verdict != RejectedByFailure {
		t.Fatalf("expected failure rejection, got %s", got.Verdict)
	}
}

func TestSafetyCheckerEnabled(t *testing.T) {
	if NewSafetyChecker(SafetyConfig{}, nil).Enabled() {
		t.Fatalf("unconfigured checker should be disabled")
	}
	if !NewSafetyChecker(SafetyConfig{APIURL: "https://rugcheck.example"}, nil).Enabled() {
		t.Fatalf("partially configured checker should be enabled")
	}
}
