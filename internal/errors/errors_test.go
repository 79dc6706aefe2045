package errors

import (
	"errors"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "no definitions for symbol")
		if err.Error() != "[NOT_FOUND] no definitions for symbol" {
			t.Errorf("expected [NOT_FOUND] no definitions for symbol, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("permission denied")
		err := Wrap(original, CodeUnavailable, "cannot open document")
		expected := "[UNAVAILABLE] cannot open document: permission denied"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidation, "empty candidate set")
		if !IsCode(err, CodeValidation) {
			t.Error("expected IsCode to return true for CodeValidation")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeWithWrapped", func(t *testing.T) {
		original := errors.New("boom")
		err := Wrap(original, CodeInternal, "branch missing at depth")
		if !IsCode(err, CodeInternal) {
			t.Error("expected IsCode to return true for wrapped CodeInternal")
		}
	})

	t.Run("WithContext", func(t *testing.T) {
		var de *DomainError
		err := New(CodeUnavailable, "cannot open document")
		if !errors.As(err, &de) {
			t.Fatal("expected DomainError")
		}
		de.WithContext(CtxPath, "/tmp/a.go")
		if de.Context[CtxPath] != "/tmp/a.go" {
			t.Error("expected path context to be set")
		}
	})
}
