package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"validation", NewValidationError("bad input", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{"not found", NewNotFound("team member", nil), "NOT_FOUND", http.StatusNotFound},
		{"unauthorized", NewUnauthorized("who are you"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"forbidden", NewForbidden("admins only"), "FORBIDDEN", http.StatusForbidden},
		{"conflict", NewConflict("slug taken", nil), "CONFLICT", http.StatusConflict},
		{"internal", NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var domainErr *DomainError
			if !errors.As(tt.err, &domainErr) {
				t.Fatalf("%T is not a DomainError", tt.err)
			}
			if domainErr.Code != tt.code || domainErr.HTTPStatus != tt.status {
				t.Fatalf("got %s/%d, want %s/%d", domainErr.Code, domainErr.HTTPStatus, tt.code, tt.status)
			}
		})
	}
}

func TestToDomainErrorPassThrough(t *testing.T) {
	original := NewConflict("slug taken", map[string]any{"slug": "x"})
	converted := ToDomainError(original)
	if converted.Code != "CONFLICT" || converted.Details["slug"] != "x" {
		t.Fatalf("conversion mangled the error: %+v", converted)
	}
}

func TestToDomainErrorWrappedPgxNoRows(t *testing.T) {
	wrapped := fmt.Errorf("query advisor: %w", pgx.ErrNoRows)
	converted := ToDomainError(wrapped)
	if converted.Code != "NOT_FOUND" || converted.HTTPStatus != http.StatusNotFound {
		t.Fatalf("pgx.ErrNoRows mapped to %s/%d, want NOT_FOUND/404", converted.Code, converted.HTTPStatus)
	}
}

func TestToDomainErrorUnknown(t *testing.T) {
	converted := ToDomainError(errors.New("disk on fire"))
	if converted.Code != "INTERNAL_ERROR" || converted.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown error mapped to %s/%d", converted.Code, converted.HTTPStatus)
	}
	if !errors.Is(converted, converted.Err) {
		t.Fatal("cause not preserved through Unwrap")
	}
}

func TestToDomainErrorNil(t *testing.T) {
	if ToDomainError(nil) != nil {
		t.Fatal("nil error converted to non-nil")
	}
}
