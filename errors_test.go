package duckflat

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapError(ErrConnection, "failed to open database", cause)

	if err.Error() != "duckflat: failed to open database: disk full" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}

	wrapped := fmt.Errorf("startup: %w", err)
	if !IsError(wrapped, ErrConnection) {
		t.Error("Expected IsError to see through fmt.Errorf wrapping")
	}
	if IsError(wrapped, ErrQuery) {
		t.Error("Expected IsError to compare the error type")
	}
	if IsError(cause, ErrConnection) {
		t.Error("Expected a plain error not to match")
	}
}

func TestStateOf(t *testing.T) {
	if StateOf(nil) != StateSuccess || StateSuccess != 0 {
		t.Error("Expected nil to map to success (0)")
	}
	if StateOf(NewError(ErrQuery, "x")) != StateError || StateError != 1 {
		t.Error("Expected an error to map to error (1)")
	}
	if ErrAlloc.String() != "allocation" || ErrorType(99).String() != "ErrorType(99)" {
		t.Error("Unexpected error type names")
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in                  string
		major, minor, patch int
	}{
		{"v1.1.3", 1, 1, 3},
		{"1.2.0", 1, 2, 0},
		{"v0.8.0-1014-gf41c0e9a4e", 0, 8, 0},
		{"3.45.1", 3, 45, 1},
		{"garbage", 0, 0, 0},
	}
	for _, tt := range tests {
		v := ParseVersion(tt.in)
		if v.Major != tt.major || v.Minor != tt.minor || v.Patch != tt.patch {
			t.Errorf("ParseVersion(%q): expected %d.%d.%d, got %d.%d.%d",
				tt.in, tt.major, tt.minor, tt.patch, v.Major, v.Minor, v.Patch)
		}
		if v.String() != tt.in {
			t.Errorf("Expected String() to return %q, got %q", tt.in, v.String())
		}
	}

	v := ParseVersion("v1.2.0")
	if !v.AtLeast(1, 2, 0) || !v.AtLeast(1, 1, 9) || v.AtLeast(1, 2, 1) || v.AtLeast(2, 0, 0) {
		t.Error("Unexpected AtLeast results for 1.2.0")
	}
}
