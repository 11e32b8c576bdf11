package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindsMatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create report: %w", Permission("author %s is not the PM", "S002"))

	if !IsPermission(err) {
		t.Fatal("wrapped permission error should match ErrPermission")
	}
	if IsValidation(err) {
		t.Fatal("permission error should not match ErrValidation")
	}
	if err.Error() != "create report: author S002 is not the PM" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestNotFoundAndAlreadyExists(t *testing.T) {
	nf := NotFound("project", "P25_00001")
	if !IsNotFound(nf) {
		t.Fatal("expected not found")
	}
	if nf.Error() != `project "P25_00001" not found` {
		t.Fatalf("message = %q", nf.Error())
	}

	ae := AlreadyExists("weekly report", "WRP25_00001_W01")
	if !errors.Is(ae, ErrAlreadyExists) {
		t.Fatal("expected already exists")
	}
}

func TestAsTypedError(t *testing.T) {
	var e *Error
	if !errors.As(fmt.Errorf("x: %w", Validation("bad date")), &e) {
		t.Fatal("errors.As should find *Error")
	}
	if e.Kind != ErrValidation || e.Message != "bad date" {
		t.Fatalf("unexpected %+v", e)
	}
}
