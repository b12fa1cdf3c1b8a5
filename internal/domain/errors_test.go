package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestOpErrorWrapUnwrap(t *testing.T) {
	root := errors.New("root")
	err := &OpError{
		Op:   "cdrclient.search",
		Kind: KindRemote,
		Err:  root,
	}

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match wrapped error")
	}

	var got *OpError
	if !errors.As(err, &got) {
		t.Fatalf("expected errors.As to match OpError")
	}
	if got.Kind != KindRemote {
		t.Fatalf("expected kind %s, got %s", KindRemote, got.Kind)
	}
}

func TestOpErrorMessageIncludesPath(t *testing.T) {
	err := &OpError{
		Op:   "csvlist.load",
		Kind: KindNotFound,
		Path: "envelopes.csv",
		Err:  ErrNotFound,
	}

	msg := err.Error()
	if !strings.Contains(msg, "csvlist.load") {
		t.Errorf("expected op in message, got %q", msg)
	}
	if !strings.Contains(msg, "envelopes.csv") {
		t.Errorf("expected path in message, got %q", msg)
	}
}

func TestIsKind(t *testing.T) {
	err := &OpError{
		Op:   "config.load",
		Kind: KindInvalidConfig,
		Err:  ErrInvalidConfig,
	}

	if !IsKind(err, KindInvalidConfig) {
		t.Fatal("expected IsKind to match")
	}
	if IsKind(err, KindAuth) {
		t.Fatal("expected IsKind to reject other kinds")
	}
	if IsKind(errors.New("plain"), KindExecution) {
		t.Fatal("expected IsKind to reject non-OpError")
	}
}
