package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := Wrap(KindStore, errors.New("connection refused"), "store candidate")

	if !errors.Is(err, ErrStore) {
		t.Fatalf("expected errors.Is(err, ErrStore)")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("store error must not match ErrNotFound")
	}
	if got := err.Error(); got != "store candidate: connection refused" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestKindOfWrappedChain(t *testing.T) {
	inner := New(KindNotFound, "candidate 7 not found")
	outer := fmt.Errorf("lookup: %w", inner)

	if got := KindOf(outer); got != KindNotFound {
		t.Fatalf("expected %s, got %s", KindNotFound, got)
	}
	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Fatalf("expected %s for plain error, got %s", KindInternal, got)
	}
}

func TestWrapNilCause(t *testing.T) {
	if err := Wrap(KindProvider, nil, "complete"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
