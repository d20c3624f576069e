package weather

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		failure  Failure
		wantKind Kind
		wantMsg  string
	}{
		{"unauthorized", Failure{StatusCode: 401}, KindInvalidCredentials, "Invalid API key"},
		{"not found", Failure{StatusCode: 404}, KindPlaceNotFound, "City not found"},
		{"server error", Failure{StatusCode: 500}, KindProviderStatus, "Error: 500"},
		{"rate limited", Failure{StatusCode: 429}, KindProviderStatus, "Error: 429"},
		{"no response", Failure{NoResponse: true, Err: errors.New("dial tcp: refused")}, KindNoResponse, "No response from the server"},
		{"unknown", Failure{Err: errors.New("bad url")}, KindUnknown, "Error: bad url"},
		{"unknown without error", Failure{}, KindUnknown, "Error: unknown error"},
		// Status codes take precedence over the no-response flag.
		{"status wins over no response", Failure{StatusCode: 404, NoResponse: true}, KindPlaceNotFound, "City not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.failure)
			if got.Kind != tt.wantKind {
				t.Fatalf("expected kind %q, got %q", tt.wantKind, got.Kind)
			}
			if got.Message != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, got.Message)
			}
			if got.Error() != tt.wantMsg {
				t.Fatalf("Error() should return the message, got %q", got.Error())
			}
		})
	}
}

func TestClassifyKeepsStatusCode(t *testing.T) {
	got := Classify(Failure{StatusCode: 503})
	if got.StatusCode != 503 {
		t.Fatalf("expected status code 503, got %d", got.StatusCode)
	}
}

func TestAsError(t *testing.T) {
	if AsError(nil) != nil {
		t.Fatal("expected nil for nil error")
	}

	classified := Classify(Failure{StatusCode: 404})
	wrapped := fmt.Errorf("fetch: %w", classified)
	if got := AsError(wrapped); got != classified {
		t.Fatalf("expected wrapped *Error to be returned as is, got %+v", got)
	}

	got := AsError(errors.New("boom"))
	if got.Kind != KindUnknown || got.Message != "Error: boom" {
		t.Fatalf("expected unknown classification, got %+v", got)
	}
}
