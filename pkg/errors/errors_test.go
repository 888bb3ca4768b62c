package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "WithoutCause",
			err:  New(ErrCodeEmptyTopology, "no networks found"),
			want: "EMPTY_TOPOLOGY: no networks found",
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeNetwork, errors.New("connection refused"), "fetch subscriptions"),
			want: "NETWORK_ERROR: fetch subscriptions: connection refused",
		},
		{
			name: "FormattedMessage",
			err:  New(ErrCodeInvalidTopology, "node %d missing name", 3),
			want: "INVALID_TOPOLOGY: node 3 missing name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	base := New(ErrCodeEmptyTopology, "no networks")
	wrapped := fmt.Errorf("load topology: %w", base)

	if !HasCode(base, ErrCodeEmptyTopology) {
		t.Error("HasCode(base) = false, want true")
	}
	if !HasCode(wrapped, ErrCodeEmptyTopology) {
		t.Error("HasCode(wrapped) = false, want true")
	}
	if HasCode(base, ErrCodeNetwork) {
		t.Error("HasCode with wrong code = true, want false")
	}
	if HasCode(errors.New("plain"), ErrCodeEmptyTopology) {
		t.Error("HasCode(plain error) = true, want false")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ErrCodeInternal, cause, "wrapped")

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(ErrCodeTimeout, "slow")); got != ErrCodeTimeout {
		t.Errorf("CodeOf = %v, want %v", got, ErrCodeTimeout)
	}
	if got := CodeOf(errors.New("plain")); got != ErrCodeInternal {
		t.Errorf("CodeOf(plain) = %v, want %v", got, ErrCodeInternal)
	}
}
