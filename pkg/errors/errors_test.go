package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "new",
			err:  New(ErrCodeSizeChangeInfeasible, "cannot change %s by %+d", "conv1", 1),
			want: "SIZE_CHANGE_INFEASIBLE: cannot change conv1 by +1",
		},
		{
			name: "wrapped",
			err:  Wrap(ErrCodeApplyHookFailure, errors.New("out of memory"), "resize output of %s", "conv1"),
			want: "APPLY_HOOK_FAILURE: resize output of conv1: out of memory",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("hook failed")
	err := Wrap(ErrCodeApplyHookFailure, cause, "resize inputs of add")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if wrapped := fmt.Errorf("apply: %w", err); !Is(wrapped, ErrCodeApplyHookFailure) {
		t.Errorf("Is(%v) = false through fmt.Errorf", wrapped)
	}
}

func TestIsAndGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want Code
	}{
		{"matching", New(ErrCodeInvalidInput, "x"), ErrCodeInvalidInput, ErrCodeInvalidInput},
		{"other code", New(ErrCodeInvalidInput, "x"), ErrCodeApplyHookFailure, ErrCodeInvalidInput},
		{"outermost wins", Wrap(ErrCodeInternal, New(ErrCodeSizeChangeInfeasible, "inner"), "outer"), ErrCodeInternal, ErrCodeInternal},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, ""},
		{"nil", nil, ErrCodeInvalidInput, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
			if got, want := Is(tt.err, tt.code), tt.code == tt.want; got != want {
				t.Errorf("Is(%v) = %v, want %v", tt.code, got, want)
			}
		})
	}
	if Is(errors.New("plain"), "") {
		t.Error(`Is(plain, "") = true, want false`)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeSelectionShapeInvalid, "3 utilities for 4 neurons")); got != "3 utilities for 4 neurons" {
		t.Errorf("UserMessage() = %v", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %v", got)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{New(ErrCodeSizeChangeInfeasible, "x"), ExitInfeasible},
		{New(ErrCodeSelectionInfeasible, "x"), ExitInfeasible},
		{fmt.Errorf("cli: %w", New(ErrCodeApplyHookFailure, "x")), ExitHook},
		{New(ErrCodeInvalidGraph, "x"), ExitUsage},
		{New(ErrCodeFileNotFound, "x"), ExitUsage},
		{New(ErrCodeInternal, "x"), ExitFailure},
		{errors.New("plain"), ExitFailure},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
