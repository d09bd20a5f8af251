package bobbinerr

import (
	"errors"
	"testing"
)

func TestIsMatchesWrappedKind(t *testing.T) {
	base := errors.New("boom")
	err := StoreIO("insert", base)

	if !Is(err, KindStoreIO) {
		t.Fatalf("expected KindStoreIO")
	}
	if Is(err, KindGitUnavailable) {
		t.Fatalf("did not expect KindGitUnavailable")
	}
	if !errors.Is(err, err) {
		t.Fatalf("expected self-equality")
	}
	if !errors.Is(err, base) {
		// errors.As walks Unwrap(); base itself is not a sentinel but
		// confirm the chain is intact via Unwrap.
		var e *Error
		if !errors.As(err, &e) || e.Unwrap() != base {
			t.Fatalf("expected unwrap to reach base cause")
		}
	}
}

func TestModelMismatchMessage(t *testing.T) {
	err := ModelMismatch("bge-small", "bge-base")
	if err.Kind() != KindModelMismatch {
		t.Fatalf("expected KindModelMismatch")
	}
	if err.Error() == "" {
		t.Fatalf("expected non-empty message")
	}
}
