package application

import (
	"errors"
	"fmt"
	"testing"

	"github.com/example/housekeeping/internal/persistence"
)

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var err *ValidationError
	if err.Error() != "" {
		t.Fatalf("expected empty string for nil error, got %q", err.Error())
	}

	withFields := &ValidationError{FieldErrors: map[string]string{"field": "invalid"}}
	if got := withFields.Error(); got != "validation failed" {
		t.Fatalf("expected consistent message for populated error, got %q", got)
	}
}

func TestValidationError_AddAndMerge(t *testing.T) {
	t.Parallel()

	base := &ValidationError{}
	if base.HasErrors() {
		t.Fatalf("expected HasErrors to report false for empty error")
	}
	base.add("first", "value")
	if got := base.FieldErrors["first"]; got != "value" {
		t.Fatalf("expected add to populate map, got %q", got)
	}

	base.merge(&ValidationError{FieldErrors: map[string]string{"second": "another"}})
	base.merge(nil)
	if len(base.FieldErrors) != 2 || !base.HasErrors() {
		t.Fatalf("unexpected fields after merge: %v", base.FieldErrors)
	}
}

func TestMapRepoError(t *testing.T) {
	t.Parallel()

	if err := mapRepoError(fmt.Errorf("lookup: %w", persistence.ErrNotFound)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mapRepoError(persistence.ErrDuplicate); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mapRepoError(errStoreDown); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected passthrough, got %v", err)
	}
	if mapRepoError(nil) != nil {
		t.Fatalf("expected nil passthrough")
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := map[error]string{
		nil:                   "",
		ErrUnauthenticated:    "unauthenticated",
		ErrInvalidCredentials: "invalid_credentials",
		ErrForbidden:          "forbidden",
		ErrSelfDeletion:       "self_deletion",
		ErrNotFound:           "not_found",
		fmt.Errorf("%w: dup", ErrConflict): "conflict",
		&ValidationError{}:    "validation",
		errStoreDown:          "unexpected",
	}
	for err, want := range cases {
		if got := ErrorKind(err); got != want {
			t.Fatalf("ErrorKind(%v) = %q, want %q", err, got, want)
		}
	}
}
