package diag

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "no args",
			err:  New(UnexpectedToken, "sample.edl", 3, 7),
			want: "sample.edl:3:7: EdlUnexpectedToken",
		},
		{
			name: "with args",
			err:  New(ExpectedTokenNotFound, "sample.edl", 1, 1, "{", "trusted"),
			want: "sample.edl:1:1: EdlExpectedTokenNotFound { trusted",
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

func TestError_Is(t *testing.T) {
	err := New(DuplicateTypeDefinition, "a.edl", 1, 1, "Foo")
	target := New(DuplicateTypeDefinition, "b.edl", 99, 1, "Bar")

	if !errors.Is(err, target) {
		t.Errorf("errors.Is(%v, %v) = false, want true (same Kind)", err, target)
	}

	other := New(UnexpectedToken, "a.edl", 1, 1)
	if errors.Is(err, other) {
		t.Errorf("errors.Is(%v, %v) = true, want false (different Kind)", err, other)
	}
}
