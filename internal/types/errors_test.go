package types

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationErrorsCollect(t *testing.T) {
	var errs ValidationErrors
	if errs.Err("validation failed") != nil {
		t.Fatal("expected nil for no failures")
	}

	errs.Add("title", "is required")
	errs.Add("price", "must be at least 0")
	if !errs.Has("price") || errs.Has("unit") {
		t.Errorf("Has reported wrong fields: %v", errs)
	}

	err := errs.Err("validation failed")
	if !IsCode(err, CodeValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	var ae *AppError
	if !errors.As(err, &ae) || len(ae.Fields) != 2 || ae.Fields[0].Field != "title" {
		t.Errorf("unexpected fields %+v", ae)
	}
	if !strings.Contains(err.Error(), "title: is required; price: must be at least 0") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("saving: %w", NewPersistenceError("failed to save project", cause))

	if !errors.Is(err, cause) {
		t.Error("expected the cause to be reachable")
	}
	if !IsCode(err, CodePersistence) || IsCode(err, CodeNotFound) {
		t.Error("IsCode did not see through wrapping")
	}
	if IsCode(cause, CodePersistence) {
		t.Error("plain errors have no code")
	}

	media := NewMediaStoreError("upload", cause)
	if media.Message != "media store upload failed" || media.Code != CodeMediaStore {
		t.Errorf("unexpected media error %+v", media)
	}
}
