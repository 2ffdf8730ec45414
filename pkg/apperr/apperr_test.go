package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

type statusErr struct {
	status int
	msg    string
}

func (e *statusErr) Error() string       { return e.msg }
func (e *statusErr) HTTPStatusCode() int { return e.status }

func TestFromUpstreamClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Code
	}{
		{"http 429", &statusErr{status: 429, msg: "too many requests"}, ResourceExhausted},
		{"rate limit message", errors.New("Rate limit reached for gpt-4o"), ResourceExhausted},
		{"http 401", &statusErr{status: 401, msg: "invalid api key"}, Unauthenticated},
		{"http 500", &statusErr{status: 500, msg: "server error"}, Unavailable},
		{"http 503", &statusErr{status: 503, msg: "overloaded"}, Unavailable},
		{"plain error", errors.New("connection reset"), Internal},
		{"wrapped status", fmt.Errorf("call failed: %w", &statusErr{status: 429, msg: "slow down"}), ResourceExhausted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromUpstream(tc.err)
			if got.Code != tc.want {
				t.Fatalf("FromUpstream(%v).Code = %s, want %s", tc.err, got.Code, tc.want)
			}
			if got.Details["upstream"] == nil {
				t.Fatalf("expected the upstream message in details, got %+v", got.Details)
			}
		})
	}
}

func TestFromUpstreamPassesTaxonomyErrorsThrough(t *testing.T) {
	orig := New(PermissionDenied, "premium required")
	got := FromUpstream(fmt.Errorf("pipeline stage: %w", orig))
	if got != orig {
		t.Fatalf("expected the original taxonomy error, got %v", got)
	}
}

func TestFromNormalizesPlainErrors(t *testing.T) {
	got := From(errors.New("boom"))
	if got.Code != Internal || got.Message != "boom" {
		t.Fatalf("From = %+v", got)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{Unauthenticated, http.StatusUnauthorized},
		{InvalidArgument, http.StatusBadRequest},
		{FailedPrecondition, http.StatusPreconditionFailed},
		{ResourceExhausted, http.StatusTooManyRequests},
		{Unavailable, http.StatusServiceUnavailable},
		{PermissionDenied, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{AlreadyExists, http.StatusConflict},
		{DeadlineExceeded, http.StatusRequestTimeout},
		{Internal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := New(tc.code, "x").HTTPStatus(); got != tc.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestIsRateLimited(t *testing.T) {
	if !IsRateLimited(errors.New("rate limit exceeded")) {
		t.Fatal("message match should count as rate limited")
	}
	if !IsRateLimited(&statusErr{status: 429, msg: "busy"}) {
		t.Fatal("status 429 should count as rate limited")
	}
	if IsRateLimited(errors.New("not found")) {
		t.Fatal("unrelated error should not count as rate limited")
	}
	if IsRateLimited(nil) {
		t.Fatal("nil should not count as rate limited")
	}
}
