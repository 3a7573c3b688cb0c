package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{New(KindValidation, "missing"), http.StatusUnprocessableEntity},
		{New(KindConflict, "taken"), http.StatusUnprocessableEntity},
		{New(KindNotFound, "gone"), http.StatusNotFound},
		{New(KindAuth, "nope"), http.StatusUnauthorized},
		{New(KindForbidden, "not yours"), http.StatusForbidden},
		{Upstream("failed", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusCode(tc.err); got != tc.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestUpstreamAttachesProviderMessage(t *testing.T) {
	cause := errors.New("model overloaded")
	err := Upstream("Failed to generate summary", cause)

	if msg := ClientMessage(err); msg != "Failed to generate summary. Error: model overloaded" {
		t.Fatalf("unexpected client message: %q", msg)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause must stay reachable via errors.Is")
	}
}

func TestClientMessageHidesInternals(t *testing.T) {
	err := fmt.Errorf("pq: connection refused")
	if msg := ClientMessage(err); msg != "Internal server error" {
		t.Fatalf("internal details leaked: %q", msg)
	}
}

func TestWrapKeepsKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", Wrap(KindNotFound, "gone", errors.New("row missing")))
	if !IsKind(err, KindNotFound) {
		t.Fatalf("kind lost through wrapping")
	}
	if StatusCode(err) != http.StatusNotFound {
		t.Fatalf("status lost through wrapping")
	}
}
