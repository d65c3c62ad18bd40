package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"passthrough", NewConflict("raced", nil), CodeConflict, http.StatusConflict},
		{"wrapped passthrough", fmt.Errorf("saving: %w", NewForbidden()), CodeForbidden, http.StatusForbidden},
		{"missing row", pgx.ErrNoRows, CodeNotFound, http.StatusNotFound},
		{"deadline", context.DeadlineExceeded, CodeTransient, http.StatusServiceUnavailable},
		{"cancellation", context.Canceled, CodeTransient, http.StatusServiceUnavailable},
		{"unknown", errors.New("disk on fire"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			de := ToDomainError(tc.err)
			if de.Code != tc.wantCode {
				t.Errorf("code = %s, want %s", de.Code, tc.wantCode)
			}
			if de.HTTPStatus != tc.wantStatus {
				t.Errorf("status = %d, want %d", de.HTTPStatus, tc.wantStatus)
			}
		})
	}

	if ToDomainError(nil) != nil {
		t.Error("nil must map to nil")
	}
}

func TestForbiddenCarriesNoDetails(t *testing.T) {
	de := ToDomainError(NewForbidden())
	if len(de.Details) != 0 {
		t.Fatalf("forbidden must not leak details, got %v", de.Details)
	}
	if de.Message != "not permitted" {
		t.Fatalf("unexpected message %q", de.Message)
	}
}

func TestCodePredicates(t *testing.T) {
	if !IsNoOp(NewNoOp("already open")) {
		t.Error("IsNoOp")
	}
	if !IsConflict(NewConflict("raced", nil)) {
		t.Error("IsConflict")
	}
	if IsNotFound(NewConflict("raced", nil)) {
		t.Error("IsNotFound must not match conflicts")
	}
	if !IsTransient(NewTransient(context.DeadlineExceeded)) {
		t.Error("IsTransient")
	}
}
