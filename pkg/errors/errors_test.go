package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeCartEmpty, http.StatusUnprocessableEntity},
		{CodeInsufficientStock, http.StatusUnprocessableEntity},
		{CodePaymentIntentFailed, http.StatusBadGateway},
		{CodeInvalidSignature, http.StatusForbidden},
		{CodeCommitFailed, http.StatusInternalServerError},
		{CodeOrderNumberExhausted, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.code, tc.status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "calling provider")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", err.Code())
	}
	if err.Error() != fmt.Sprintf("%s: %s", CodeDependency, "calling provider") {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}

func TestAsFindsTypedError(t *testing.T) {
	t.Parallel()

	inner := New(CodeInsufficientStock, "qty 10 exceeds stock 3")
	wrapped := fmt.Errorf("checkout: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeInsufficientStock {
		t.Fatalf("unexpected code: %s", typed.Code())
	}

	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := New(CodeValidation, "validation failed").WithDetails(map[string]string{"qty": "must be at least 1"})
	details, ok := err.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details type: %T", err.Details())
	}
	if details["qty"] != "must be at least 1" {
		t.Fatalf("unexpected details: %+v", details)
	}
}
